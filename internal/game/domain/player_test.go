package domain

import (
	"strings"
	"testing"

	"github.com/louisbranch/whoisit/internal/errors"
)

func TestNewRoster(t *testing.T) {
	players, err := NewRoster([]string{"  Alice ", "Bob", "Carol"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(players))
	}
	if players[0].Name != "Alice" {
		t.Fatalf("expected trimmed name Alice, got %q", players[0].Name)
	}
	if players[0].ID != "player-1" || players[2].ID != "player-3" {
		t.Fatalf("unexpected player ids: %q, %q", players[0].ID, players[2].ID)
	}
	for _, p := range players {
		if p.Score != 0 {
			t.Fatalf("expected zero score for %s, got %d", p.Name, p.Score)
		}
	}
}

func TestNewRosterValidation(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		code  errors.Code
	}{
		{"empty name", []string{"Alice", "   "}, errors.CodePlayerNameEmpty},
		{"too few", []string{"Alice"}, errors.CodeTooFewPlayers},
		{"none", nil, errors.CodeTooFewPlayers},
		{"too long", []string{"Alice", strings.Repeat("x", MaxPlayerNameLength+1)}, errors.CodePlayerNameTooLong},
		{"duplicate ignoring case", []string{"Alice", "ALICE"}, errors.CodePlayerNameDuplicate},
		{"duplicate after trim", []string{"Bob", " Bob "}, errors.CodePlayerNameDuplicate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRoster(tc.names)
			if !errors.IsCode(err, tc.code) {
				t.Fatalf("expected code %s, got %v", tc.code, err)
			}
		})
	}
}

func TestNewRosterTooMany(t *testing.T) {
	names := make([]string, MaxPlayers+1)
	for i := range names {
		names[i] = "Player" + strings.Repeat("a", i+1)
	}
	_, err := NewRoster(names)
	if !errors.IsCode(err, errors.CodeTooManyPlayers) {
		t.Fatalf("expected too many players, got %v", err)
	}
}
