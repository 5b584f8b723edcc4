package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pokeswap/internal/domain/repository"
	"pokeswap/pkg/logger"
)

type fileExchangeJournal struct {
	journalDir string
}

// NewFileExchangeJournal keeps one intent file per trade id under
// dataDir/intents. An intent present on disk means an accepted exchange may
// not have reached both account records yet.
func NewFileExchangeJournal(dataDir string) (repository.ExchangeJournal, error) {
	journalDir := filepath.Join(dataDir, "intents")
	if err := os.MkdirAll(journalDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal dir: %w", err)
	}

	return &fileExchangeJournal{
		journalDir: journalDir,
	}, nil
}

func (j *fileExchangeJournal) Log(ctx context.Context, intent *repository.ExchangeIntent) error {
	path, err := j.intentFile(intent.TradeID)
	if err != nil {
		return err
	}
	return writeJSON(path, intent)
}

func (j *fileExchangeJournal) Clear(ctx context.Context, tradeID string) error {
	path, err := j.intentFile(tradeID)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear exchange intent: %w", err)
	}
	return nil
}

func (j *fileExchangeJournal) Pending(ctx context.Context) ([]*repository.ExchangeIntent, error) {
	entries, err := os.ReadDir(j.journalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal dir: %w", err)
	}

	var intents []*repository.ExchangeIntent
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(j.journalDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read exchange intent %s: %w", entry.Name(), err)
		}

		var intent repository.ExchangeIntent
		if err := json.Unmarshal(raw, &intent); err != nil {
			// A corrupt intent must not block recovery of the others.
			logger.Warn("Skipping unreadable exchange intent %s: %v", entry.Name(), err)
			continue
		}
		intents = append(intents, &intent)
	}

	return intents, nil
}

func (j *fileExchangeJournal) intentFile(tradeID string) (string, error) {
	if tradeID == "" || strings.ContainsAny(tradeID, "/\\") || strings.Contains(tradeID, "..") {
		return "", fmt.Errorf("invalid trade id %q", tradeID)
	}
	return filepath.Join(j.journalDir, tradeID+".json"), nil
}
