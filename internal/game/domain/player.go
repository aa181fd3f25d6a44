package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/whoisit/internal/errors"
)

const (
	// MinPlayers is the smallest allowed roster size.
	MinPlayers = 2
	// MaxPlayers is the largest allowed roster size.
	MaxPlayers = 16
	// MaxPlayerNameLength bounds individual player names.
	MaxPlayerNameLength = 30
)

// Player is one participant in a game session.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// NewRoster validates and normalizes a list of player names into players
// with zeroed scores. Names are trimmed, must be non-empty, at most
// MaxPlayerNameLength characters, and unique ignoring case.
func NewRoster(names []string) ([]Player, error) {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New(errors.CodePlayerNameEmpty, "player name is empty")
		}
		if len([]rune(name)) > MaxPlayerNameLength {
			return nil, errors.WithMetadata(errors.CodePlayerNameTooLong,
				fmt.Sprintf("player name %q exceeds %d characters", name, MaxPlayerNameLength),
				map[string]string{"Name": name, "Max": strconv.Itoa(MaxPlayerNameLength)})
		}
		trimmed = append(trimmed, name)
	}

	if len(trimmed) < MinPlayers {
		return nil, errors.WithMetadata(errors.CodeTooFewPlayers,
			fmt.Sprintf("at least %d players are required, got %d", MinPlayers, len(trimmed)),
			map[string]string{"Min": strconv.Itoa(MinPlayers)})
	}
	if len(trimmed) > MaxPlayers {
		return nil, errors.WithMetadata(errors.CodeTooManyPlayers,
			fmt.Sprintf("at most %d players are allowed, got %d", MaxPlayers, len(trimmed)),
			map[string]string{"Max": strconv.Itoa(MaxPlayers)})
	}

	seen := make(map[string]struct{}, len(trimmed))
	players := make([]Player, 0, len(trimmed))
	for i, name := range trimmed {
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return nil, errors.WithMetadata(errors.CodePlayerNameDuplicate,
				fmt.Sprintf("player name %q is duplicated", name),
				map[string]string{"Name": name})
		}
		seen[key] = struct{}{}
		players = append(players, Player{
			ID:    fmt.Sprintf("player-%d", i+1),
			Name:  name,
			Score: 0,
		})
	}
	return players, nil
}
