package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/louisbranch/whoisit/internal/errors"
	"github.com/louisbranch/whoisit/internal/game/shuffle"
)

// Status describes the lifecycle state of a game session.
// Transitions are one-directional: pending, then active, then completed.
type Status int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusPending indicates players are gathered but the game has not started.
	StatusPending
	// StatusActive indicates rounds are being played.
	StatusActive
	// StatusCompleted indicates the final round has been resolved.
	StatusCompleted
)

// String returns the wire representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unspecified"
	}
}

// ParseStatus converts a wire status back to its enum value.
func ParseStatus(value string) Status {
	switch value {
	case "pending":
		return StatusPending
	case "active":
		return StatusActive
	case "completed":
		return StatusCompleted
	default:
		return StatusUnspecified
	}
}

const (
	// DefaultMaxCluesPerProfile is the per-round clue budget.
	DefaultMaxCluesPerProfile = 20
	// DefaultNumberOfRounds is used when the caller does not pick a count.
	DefaultNumberOfRounds = 5
	// MaxNumberOfRounds bounds a single game.
	MaxNumberOfRounds = 50
)

// TurnState tracks progress through the current profile's round.
type TurnState struct {
	ProfileID     string
	CluesRevealed int
	Revealed      bool
}

// Session is the authoritative state of one game.
//
// It is mutated only by its command methods and is not safe for concurrent
// use; the caller owns synchronization (a single command handler per game).
type Session struct {
	ID                  string
	Status              Status
	Players             []Player
	SelectedCategories  []string
	Profiles            []Profile
	SelectedProfileIDs  []string
	CurrentProfile      *Profile
	CurrentRound        int
	NumberOfRounds      int
	RevealedClueHistory []string
	ClueShuffle         shuffle.Map
	MaxCluesPerProfile  int
	Turn                TurnState
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewSession creates a pending session from a list of player names.
func NewSession(playerNames []string, now func() time.Time, idGenerator func() (string, error)) (*Session, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewSessionID
	}

	players, err := NewRoster(playerNames)
	if err != nil {
		return nil, err
	}

	sessionID, err := idGenerator()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	createdAt := now().UTC()
	return &Session{
		ID:                 sessionID,
		Status:             StatusPending,
		Players:            players,
		ClueShuffle:        shuffle.Map{},
		MaxCluesPerProfile: DefaultMaxCluesPerProfile,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}, nil
}

// DefaultRoundCount picks the round count when the caller does not:
// five rounds, or fewer when fewer profiles are available.
func DefaultRoundCount(availableProfiles int) int {
	if availableProfiles < DefaultNumberOfRounds {
		return availableProfiles
	}
	return DefaultNumberOfRounds
}

// Start transitions the session from pending to active with the profiles to
// play, in play order. The profile slice length is the round count.
func (s *Session) Start(categories []string, profiles []Profile, now time.Time) error {
	if s.Status != StatusPending {
		return errors.New(errors.CodeGameNotPending,
			fmt.Sprintf("cannot start game in status %s", s.Status))
	}
	if len(categories) == 0 {
		return errors.New(errors.CodeCategoriesEmpty, "no categories selected")
	}
	if len(profiles) < 1 || len(profiles) > MaxNumberOfRounds {
		return errors.WithMetadata(errors.CodeInvalidRoundCount,
			fmt.Sprintf("round count %d is out of range", len(profiles)),
			map[string]string{"Max": strconv.Itoa(MaxNumberOfRounds)})
	}

	ids := make([]string, len(profiles))
	for i, profile := range profiles {
		ids[i] = profile.ID
	}

	s.Status = StatusActive
	s.SelectedCategories = append([]string(nil), categories...)
	s.Profiles = append([]Profile(nil), profiles...)
	s.SelectedProfileIDs = ids
	s.NumberOfRounds = len(profiles)
	s.CurrentRound = 1
	s.setCurrentProfile(&s.Profiles[0])
	s.UpdatedAt = now.UTC()
	return nil
}

// RevealNextClue reveals the next clue of the current profile and returns it.
//
// The profile's permutation is created on the first reveal, seeded from the
// session and profile ids so a reloaded session reproduces the same order.
// Sessions persisted before shuffling have revealed clues but no stored
// permutation; those keep identity order.
func (s *Session) RevealNextClue(now time.Time) (string, error) {
	if s.Status == StatusCompleted {
		return "", errors.New(errors.CodeGameCompleted, "game is completed")
	}
	if s.CurrentProfile == nil {
		return "", errors.New(errors.CodeNoCurrentProfile, "no profile in play")
	}
	if s.Turn.Revealed {
		return "", errors.New(errors.CodeRoundAlreadyResolved, "round is already resolved")
	}

	clues := s.CurrentProfile.Clues
	budget := s.MaxCluesPerProfile
	if budget > len(clues) {
		budget = len(clues)
	}
	if s.Turn.CluesRevealed >= budget {
		return "", errors.New(errors.CodeClueBudgetExhausted,
			fmt.Sprintf("all %d clues are revealed for profile %s", budget, s.CurrentProfile.ID))
	}

	perm := s.permutationFor(s.CurrentProfile)
	position := s.Turn.CluesRevealed + 1
	clue, ok := shuffle.ResolveClue(clues, position, perm)
	if !ok {
		return "", errors.New(errors.CodeClueBudgetExhausted,
			fmt.Sprintf("clue position %d is out of range for profile %s", position, s.CurrentProfile.ID))
	}

	s.RevealedClueHistory = append(s.RevealedClueHistory, clue)
	s.Turn.CluesRevealed++
	s.UpdatedAt = now.UTC()
	return clue, nil
}

// RoundPoints is the score awarded for guessing the current profile now:
// one point per unrevealed clue, plus one. Never below one.
func (s *Session) RoundPoints() int {
	if s.CurrentProfile == nil {
		return 1
	}
	budget := s.MaxCluesPerProfile
	if budget > len(s.CurrentProfile.Clues) {
		budget = len(s.CurrentProfile.Clues)
	}
	points := budget - s.Turn.CluesRevealed + 1
	if points < 1 {
		points = 1
	}
	return points
}

// AwardPoints credits points to a player, resolves the round, and completes
// the session when this was the final round. Points must be positive; zero
// or negative values fall back to the remaining-clue rule.
func (s *Session) AwardPoints(playerID string, points int, now time.Time) error {
	if s.Status == StatusCompleted {
		return errors.New(errors.CodeGameCompleted, "game is completed")
	}
	if s.CurrentProfile == nil {
		return errors.New(errors.CodeNoCurrentProfile, "no profile in play")
	}
	if s.Turn.Revealed {
		return errors.New(errors.CodeRoundAlreadyResolved, "round is already resolved")
	}

	index := -1
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			index = i
			break
		}
	}
	if index == -1 {
		return errors.WithMetadata(errors.CodePlayerNotFound,
			fmt.Sprintf("player %s is not in this game", playerID),
			map[string]string{"PlayerID": playerID})
	}

	if points <= 0 {
		points = s.RoundPoints()
	}
	s.Players[index].Score += points
	s.Turn.Revealed = true

	if s.CurrentRound >= s.NumberOfRounds {
		s.Status = StatusCompleted
	}
	s.UpdatedAt = now.UTC()
	return nil
}

// AdvanceProfile moves to the next selected profile and resets turn state.
// On a completed session this is a terminal no-op; the caller should show
// the scoreboard instead.
func (s *Session) AdvanceProfile(now time.Time) error {
	if s.Status == StatusCompleted {
		return nil
	}
	if s.Status != StatusActive {
		return errors.New(errors.CodeGameNotPending,
			fmt.Sprintf("cannot advance in status %s", s.Status))
	}

	if s.CurrentRound >= s.NumberOfRounds {
		// Defensive: advancing past the final round completes the game
		// rather than breaking the round invariant.
		s.Status = StatusCompleted
		s.UpdatedAt = now.UTC()
		return nil
	}

	s.CurrentRound++
	nextID := s.SelectedProfileIDs[s.CurrentRound-1]
	next := s.ProfileByID(nextID)
	if next == nil {
		next = s.substituteProfile(nextID)
	}
	if next == nil {
		return errors.WithMetadata(errors.CodeCategoryExhausted,
			fmt.Sprintf("no profile available for round %d", s.CurrentRound),
			map[string]string{"Category": ""})
	}
	s.setCurrentProfile(next)
	s.UpdatedAt = now.UTC()
	return nil
}

// FinishEarly forces the session to completed regardless of round progress.
func (s *Session) FinishEarly(now time.Time) error {
	if s.Status == StatusCompleted {
		return nil
	}
	if s.Status != StatusActive {
		return errors.New(errors.CodeGameNotPending,
			fmt.Sprintf("cannot finish game in status %s", s.Status))
	}
	s.Status = StatusCompleted
	s.UpdatedAt = now.UTC()
	return nil
}

// Reset returns the session to pending. With samePlayers the roster and id
// are kept and scores zeroed; otherwise everything is discarded and a new
// id allocated.
func (s *Session) Reset(samePlayers bool, now time.Time, idGenerator func() (string, error)) error {
	if idGenerator == nil {
		idGenerator = NewSessionID
	}

	if samePlayers {
		for i := range s.Players {
			s.Players[i].Score = 0
		}
	} else {
		sessionID, err := idGenerator()
		if err != nil {
			return fmt.Errorf("generate session id: %w", err)
		}
		s.ID = sessionID
		s.Players = nil
		s.SelectedCategories = nil
	}

	s.Status = StatusPending
	s.Profiles = nil
	s.SelectedProfileIDs = nil
	s.CurrentProfile = nil
	s.CurrentRound = 0
	s.NumberOfRounds = 0
	s.RevealedClueHistory = nil
	s.ClueShuffle = shuffle.Map{}
	s.Turn = TurnState{}
	s.UpdatedAt = now.UTC()
	return nil
}

// ProfileByID returns the pooled profile with the given id, or nil.
func (s *Session) ProfileByID(id string) *Profile {
	for i := range s.Profiles {
		if s.Profiles[i].ID == id {
			return &s.Profiles[i]
		}
	}
	return nil
}

// permutationFor returns the stored permutation for the profile, creating
// and storing one when the profile has not revealed any clue yet.
func (s *Session) permutationFor(profile *Profile) []int {
	if s.ClueShuffle == nil {
		s.ClueShuffle = shuffle.Map{}
	}
	if perm, ok := s.ClueShuffle[profile.ID]; ok {
		return perm
	}
	if s.Turn.CluesRevealed > 0 {
		// Clues were revealed before shuffling existed; keep natural order.
		return shuffle.GetOrCreate(s.ClueShuffle, profile.ID, len(profile.Clues))
	}
	perm := shuffle.Generate(len(profile.Clues), s.ID+":"+profile.ID)
	s.ClueShuffle[profile.ID] = perm
	return perm
}

// substituteProfile replaces a selected id that is missing from the pool
// with an unused pool profile. The pool only holds profiles from the
// selected categories, so any unused candidate is a valid stand-in.
func (s *Session) substituteProfile(missingID string) *Profile {
	used := make(map[string]struct{}, len(s.SelectedProfileIDs))
	for _, id := range s.SelectedProfileIDs {
		if id != missingID {
			used[id] = struct{}{}
		}
	}
	for i := range s.Profiles {
		candidate := &s.Profiles[i]
		if _, ok := used[candidate.ID]; ok {
			continue
		}
		s.SelectedProfileIDs[s.CurrentRound-1] = candidate.ID
		return candidate
	}
	return nil
}

func (s *Session) setCurrentProfile(profile *Profile) {
	s.CurrentProfile = profile
	s.RevealedClueHistory = nil
	s.Turn = TurnState{ProfileID: profile.ID}
}
