package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/whoisit/internal/game/shuffle"
)

// Snapshot is the persisted session record. It is the full state of one
// game, upserted by session id with last-write-wins semantics.
type Snapshot struct {
	ID                  string          `json:"id"`
	Status              string          `json:"status"`
	Players             []Player        `json:"players"`
	SelectedCategories  []string        `json:"selectedCategories"`
	Profiles            []Profile       `json:"profiles"`
	SelectedProfileIDs  []string        `json:"selectedProfileIds"`
	CurrentProfile      *Profile        `json:"currentProfile,omitempty"`
	CurrentRound        int             `json:"currentRound"`
	NumberOfRounds      int             `json:"numberOfRounds"`
	CluesRevealed       int             `json:"cluesRevealed"`
	RoundRevealed       bool            `json:"roundRevealed"`
	RevealedClueHistory []string        `json:"revealedClueHistory"`
	ClueShuffleMap      json.RawMessage `json:"clueShuffleMap,omitempty"`
	MaxCluesPerProfile  int             `json:"maxCluesPerProfile"`
	CreatedAt           int64           `json:"createdAt"`
	UpdatedAt           int64           `json:"updatedAt"`
}

// ToSnapshot serializes the session into its persisted record.
func (s *Session) ToSnapshot() (Snapshot, error) {
	shuffled, err := json.Marshal(shuffle.Serialize(s.ClueShuffle))
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal clue shuffle map: %w", err)
	}

	var current *Profile
	if s.CurrentProfile != nil {
		cloned := *s.CurrentProfile
		current = &cloned
	}

	return Snapshot{
		ID:                  s.ID,
		Status:              s.Status.String(),
		Players:             append([]Player(nil), s.Players...),
		SelectedCategories:  append([]string(nil), s.SelectedCategories...),
		Profiles:            append([]Profile(nil), s.Profiles...),
		SelectedProfileIDs:  append([]string(nil), s.SelectedProfileIDs...),
		CurrentProfile:      current,
		CurrentRound:        s.CurrentRound,
		NumberOfRounds:      s.NumberOfRounds,
		CluesRevealed:       s.Turn.CluesRevealed,
		RoundRevealed:       s.Turn.Revealed,
		RevealedClueHistory: append([]string(nil), s.RevealedClueHistory...),
		ClueShuffleMap:      shuffled,
		MaxCluesPerProfile:  s.MaxCluesPerProfile,
		CreatedAt:           s.CreatedAt.UTC().UnixMilli(),
		UpdatedAt:           s.UpdatedAt.UTC().UnixMilli(),
	}, nil
}

// FromSnapshot rehydrates a session from its persisted record.
//
// The clue shuffle map is decoded tolerantly: entries that are not arrays
// of numbers are dropped, so one corrupt entry does not lose the session.
func FromSnapshot(snapshot Snapshot) (*Session, error) {
	status := ParseStatus(snapshot.Status)
	if status == StatusUnspecified {
		return nil, fmt.Errorf("session %s: unknown status %q", snapshot.ID, snapshot.Status)
	}

	shuffleMap := shuffle.Map{}
	if len(snapshot.ClueShuffleMap) > 0 {
		var raw map[string]any
		if err := json.Unmarshal(snapshot.ClueShuffleMap, &raw); err == nil {
			shuffleMap = shuffle.Deserialize(raw)
		}
	}

	maxClues := snapshot.MaxCluesPerProfile
	if maxClues <= 0 {
		maxClues = DefaultMaxCluesPerProfile
	}

	session := &Session{
		ID:                  snapshot.ID,
		Status:              status,
		Players:             append([]Player(nil), snapshot.Players...),
		SelectedCategories:  append([]string(nil), snapshot.SelectedCategories...),
		Profiles:            append([]Profile(nil), snapshot.Profiles...),
		SelectedProfileIDs:  append([]string(nil), snapshot.SelectedProfileIDs...),
		CurrentRound:        snapshot.CurrentRound,
		NumberOfRounds:      snapshot.NumberOfRounds,
		RevealedClueHistory: append([]string(nil), snapshot.RevealedClueHistory...),
		ClueShuffle:         shuffleMap,
		MaxCluesPerProfile:  maxClues,
		CreatedAt:           time.UnixMilli(snapshot.CreatedAt).UTC(),
		UpdatedAt:           time.UnixMilli(snapshot.UpdatedAt).UTC(),
	}

	if snapshot.CurrentProfile != nil {
		// Point into the pool when possible so profile identity is stable.
		current := session.ProfileByID(snapshot.CurrentProfile.ID)
		if current == nil {
			cloned := *snapshot.CurrentProfile
			current = &cloned
		}
		session.CurrentProfile = current
		session.Turn = TurnState{
			ProfileID:     current.ID,
			CluesRevealed: snapshot.CluesRevealed,
			Revealed:      snapshot.RoundRevealed,
		}
	}

	return session, nil
}
