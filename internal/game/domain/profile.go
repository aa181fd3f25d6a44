package domain

import (
	"fmt"
	"strings"
)

const (
	// MinCluesPerProfile is the smallest valid clue list.
	MinCluesPerProfile = 1
	// MaxCluesPerProfileLimit bounds the clue list of a single profile.
	MaxCluesPerProfileLimit = 100
)

// Profile is one hidden identity players try to guess.
// Profiles are immutable once loaded from the catalog.
type Profile struct {
	ID       string            `json:"id"`
	Category string            `json:"category"`
	Name     string            `json:"name"`
	Clues    []string          `json:"clues"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks the structural invariants of a catalog profile.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("profile id is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("profile %s: category is required", p.ID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("profile %s: name is required", p.ID)
	}
	if len(p.Clues) < MinCluesPerProfile {
		return fmt.Errorf("profile %s: at least %d clue is required", p.ID, MinCluesPerProfile)
	}
	if len(p.Clues) > MaxCluesPerProfileLimit {
		return fmt.Errorf("profile %s: at most %d clues are allowed, got %d", p.ID, MaxCluesPerProfileLimit, len(p.Clues))
	}
	return nil
}
