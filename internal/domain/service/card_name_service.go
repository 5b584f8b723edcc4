package service

import (
	"path/filepath"
	"strings"
)

// knownCardNames is the lookup table for the filename heuristic. Matching is
// case-insensitive substring matching against the cleaned base filename.
var knownCardNames = []string{
	"Pikachu", "Charizard", "Bulbasaur", "Squirtle", "Eevee", "Mewtwo",
	"Gengar", "Snorlax", "Jigglypuff", "Lucario", "Greninja", "Rayquaza",
	"Dragonite", "Arceus", "Gardevoir", "Umbreon", "Sylveon", "Blastoise",
	"Venusaur", "Raichu",
}

const unknownCardName = "Unknown Card"

// CardNameService guesses a card's display name from its upload filename.
// It is a stand-in for a real OCR backend and never fails the caller: the
// worst outcome is the "Unknown Card" placeholder.
type CardNameService struct{}

func NewCardNameService() *CardNameService {
	return &CardNameService{}
}

func (s *CardNameService) SuggestName(filename string, image []byte) string {
	guess := cleanFilename(filename)
	if guess == "" {
		return unknownCardName
	}

	for _, name := range knownCardNames {
		if strings.Contains(guess, strings.ToLower(name)) {
			return name
		}
	}

	// Fall back to title-casing the first token that looks like a word.
	for _, token := range strings.Fields(guess) {
		if len(token) > 2 {
			return strings.ToUpper(token[:1]) + token[1:]
		}
	}

	return unknownCardName
}

func cleanFilename(filename string) string {
	base := strings.ToLower(filepath.Base(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(base)
}
