package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pokeswap/internal/domain/entity"
	"pokeswap/internal/domain/repository"
)

type fileUserRepository struct {
	dataDir string
}

// NewFileUserRepository stores one JSON document per normalized username
// under dataDir. There is no locking and no cross-record transaction; that
// contract lives with the callers.
func NewFileUserRepository(dataDir string) (repository.UserRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	return &fileUserRepository{
		dataDir: dataDir,
	}, nil
}

func (r *fileUserRepository) Create(ctx context.Context, user *entity.User) error {
	path, err := r.userFile(user.Username)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return repository.ErrAlreadyExists
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat user record: %w", err)
	}

	return writeJSON(path, user)
}

func (r *fileUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	path, err := r.userFile(username)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user record: %w", err)
	}

	var user entity.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user record %q: %w", username, err)
	}

	// Older documents may predate either list.
	if user.Cards == nil {
		user.Cards = []entity.Card{}
	}
	if user.Trades == nil {
		user.Trades = []entity.Trade{}
	}

	return &user, nil
}

func (r *fileUserRepository) Save(ctx context.Context, user *entity.User) error {
	path, err := r.userFile(user.Username)
	if err != nil {
		return err
	}
	return writeJSON(path, user)
}

func (r *fileUserRepository) userFile(username string) (string, error) {
	key := entity.NormalizeUsername(username)
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid record key %q", username)
	}
	return filepath.Join(r.dataDir, key+".json"), nil
}

// writeJSON goes through a temp file and rename so a crash mid-write cannot
// truncate an existing record.
func writeJSON(path string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp record: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close record: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace record: %w", err)
	}
	return nil
}
