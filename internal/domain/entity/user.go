package entity

import (
	"strings"
)

const DefaultProfilePic = "eevee"

// ProfilePics is the fixed set of avatars a user can pick at signup.
var ProfilePics = []string{"eevee", "squirtle", "charmander", "bulbasaur"}

type User struct {
	Username   string  `json:"username"`
	ProfilePic string  `json:"profilePic"`
	Cards      []Card  `json:"cards"`
	Trades     []Trade `json:"trades"`
}

// NormalizeUsername maps every spelling of a username to its storage key.
// Applied on every read and write so "Ash", "ash" and " ash " collide.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func ValidProfilePic(name string) bool {
	for _, pic := range ProfilePics {
		if pic == name {
			return true
		}
	}
	return false
}
