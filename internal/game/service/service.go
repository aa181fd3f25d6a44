// Package service exposes the game commands the UI layer issues.
//
// Each command loads or resolves the session aggregate, applies the domain
// mutation under the session's lock, and schedules persistence. Commands
// that complete a game flush storage before returning, so a navigation to
// the scoreboard can never outrun the final score write.
package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/whoisit/internal/catalog"
	"github.com/louisbranch/whoisit/internal/errors"
	"github.com/louisbranch/whoisit/internal/game/autosave"
	"github.com/louisbranch/whoisit/internal/game/domain"
	"github.com/louisbranch/whoisit/internal/game/selection"
	"github.com/louisbranch/whoisit/internal/storage"
)

// DefaultLocale selects which catalog locale games are played in.
const DefaultLocale = "en"

// Service owns the live session aggregates and runs game commands.
type Service struct {
	store   storage.SessionStore
	saver   *autosave.Saver
	catalog catalog.Client
	locale  string
	clock   func() time.Time
	idGen   func() (string, error)
	newRNG  func() *rand.Rand
	tracer  trace.Tracer

	mu       sync.Mutex
	sessions map[string]*sessionHandle
}

// sessionHandle serializes commands against one session. The aggregate has
// a single logical owner; the lock enforces that across HTTP requests.
type sessionHandle struct {
	mu      sync.Mutex
	session *domain.Session
}

// New creates a game service with default clock and id generation.
// An empty locale uses DefaultLocale.
func New(store storage.SessionStore, saver *autosave.Saver, catalogClient catalog.Client, locale string) *Service {
	if locale == "" {
		locale = DefaultLocale
	}
	return &Service{
		store:    store,
		saver:    saver,
		catalog:  catalogClient,
		locale:   locale,
		clock:    time.Now,
		idGen:    domain.NewSessionID,
		newRNG:   nil,
		tracer:   otel.Tracer("whoisit/game"),
		sessions: make(map[string]*sessionHandle),
	}
}

// CreateSession validates the roster and creates a pending session.
// The new session is flushed to storage before returning.
func (s *Service) CreateSession(ctx context.Context, playerNames []string) (domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "game.CreateSession")
	defer span.End()

	session, err := domain.NewSession(playerNames, s.clock, s.idGen)
	if err != nil {
		return domain.Snapshot{}, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = &sessionHandle{session: session}
	s.mu.Unlock()

	return s.flush(ctx, session)
}

// LoadSession returns the snapshot of a session, resolving the live
// aggregate when one is registered and rehydrating from storage otherwise.
func (s *Service) LoadSession(ctx context.Context, id string) (domain.Snapshot, error) {
	handle, err := s.handle(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	handle.mu.Lock()
	defer handle.mu.Unlock()
	return handle.session.ToSnapshot()
}

// StartGame selects profiles for the requested categories and round count
// and transitions the session from pending to active. A roundCount of zero
// picks the default of five rounds, capped by availability.
func (s *Service) StartGame(ctx context.Context, id string, categories []string, roundCount int) (domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "game.StartGame")
	defer span.End()

	if len(categories) == 0 {
		return domain.Snapshot{}, errors.New(errors.CodeCategoriesEmpty, "no categories selected")
	}

	handle, err := s.handle(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}

	grouped, err := catalog.LoadProfiles(ctx, s.catalog, s.locale, categories)
	if err != nil {
		return domain.Snapshot{}, err
	}

	pool := make(map[string][]string, len(grouped))
	byID := make(map[string]domain.Profile)
	for slug, profiles := range grouped {
		ids := make([]string, len(profiles))
		for i, profile := range profiles {
			ids[i] = profile.ID
			byID[profile.ID] = profile
		}
		pool[slug] = ids
	}

	if roundCount <= 0 {
		total := 0
		for _, ids := range pool {
			total += len(ids)
		}
		roundCount = domain.DefaultRoundCount(total)
	}

	selected, err := selection.Select(pool, categories, roundCount, s.selectionRNG())
	if err != nil {
		return domain.Snapshot{}, err
	}

	profiles := make([]domain.Profile, len(selected))
	for i, profileID := range selected {
		profile, ok := byID[profileID]
		if !ok {
			return domain.Snapshot{}, errors.WithMetadata(errors.CodeCategoryExhausted,
				fmt.Sprintf("selected profile %s is not in the loaded pool", profileID),
				map[string]string{"Category": ""})
		}
		profiles[i] = profile
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()
	if err := handle.session.Start(categories, profiles, s.clock()); err != nil {
		return domain.Snapshot{}, err
	}
	return s.flush(ctx, handle.session)
}

// RevealNextClue reveals the next clue for the current profile.
func (s *Service) RevealNextClue(ctx context.Context, id string) (string, domain.Snapshot, error) {
	handle, err := s.handle(ctx, id)
	if err != nil {
		return "", domain.Snapshot{}, err
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()
	clue, err := handle.session.RevealNextClue(s.clock())
	if err != nil {
		return "", domain.Snapshot{}, err
	}
	snapshot, err := s.markDirty(handle.session)
	return clue, snapshot, err
}

// AwardPoints credits the round's points to a player and resolves the
// round. Zero points applies the remaining-clue rule. Completing the final
// round flushes storage before returning.
func (s *Service) AwardPoints(ctx context.Context, id, playerID string, points int) (domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "game.AwardPoints")
	defer span.End()

	handle, err := s.handle(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()
	if err := handle.session.AwardPoints(playerID, points, s.clock()); err != nil {
		return domain.Snapshot{}, err
	}
	if handle.session.Status == domain.StatusCompleted {
		return s.flush(ctx, handle.session)
	}
	return s.markDirty(handle.session)
}

// AdvanceProfile moves the game to the next round's profile.
func (s *Service) AdvanceProfile(ctx context.Context, id string) (domain.Snapshot, error) {
	handle, err := s.handle(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()
	if err := handle.session.AdvanceProfile(s.clock()); err != nil {
		return domain.Snapshot{}, err
	}
	return s.markDirty(handle.session)
}

// FinishGame ends the game early, with the same persistence guarantee as a
// natural completion.
func (s *Service) FinishGame(ctx context.Context, id string) (domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "game.FinishGame")
	defer span.End()

	handle, err := s.handle(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()
	if err := handle.session.FinishEarly(s.clock()); err != nil {
		return domain.Snapshot{}, err
	}
	return s.flush(ctx, handle.session)
}

// ResetGame returns the session to pending. With samePlayers the roster and
// id survive with zeroed scores; otherwise a fresh id and empty roster.
func (s *Service) ResetGame(ctx context.Context, id string, samePlayers bool) (domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "game.ResetGame")
	defer span.End()

	handle, err := s.handle(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()

	previousID := handle.session.ID
	if err := handle.session.Reset(samePlayers, s.clock(), s.idGen); err != nil {
		return domain.Snapshot{}, err
	}

	if handle.session.ID != previousID {
		s.mu.Lock()
		delete(s.sessions, previousID)
		s.sessions[handle.session.ID] = handle
		s.mu.Unlock()
	}

	return s.flush(ctx, handle.session)
}

// Rankings returns the scoreboard rows for a session.
func (s *Service) Rankings(ctx context.Context, id string) ([]domain.Ranking, error) {
	handle, err := s.handle(ctx, id)
	if err != nil {
		return nil, err
	}
	handle.mu.Lock()
	defer handle.mu.Unlock()
	return domain.Rankings(handle.session.Players), nil
}

// Categories lists the catalog categories playable in the service locale.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	manifest, err := s.catalog.FetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	return manifest.CategorySlugs(s.locale), nil
}

// AvailableProfiles reports how many profiles the manifest offers across
// the given categories, used to bound the round count before starting.
func (s *Service) AvailableProfiles(ctx context.Context, categories []string) (int, error) {
	if len(categories) == 0 {
		return 0, errors.New(errors.CodeCategoriesEmpty, "no categories selected")
	}
	manifest, err := s.catalog.FetchManifest(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, slug := range categories {
		total += manifest.ProfileAmount(s.locale, slug)
	}
	return total, nil
}

// DeleteSession removes a session from storage and the live registry.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.CodeStorageFailure, fmt.Sprintf("delete session %s", id), err)
	}
	return nil
}

// handle resolves the live aggregate for a session id, rehydrating it from
// storage on first touch. Not-found and storage failures stay distinct.
func (s *Service) handle(ctx context.Context, id string) (*sessionHandle, error) {
	s.mu.Lock()
	if h, ok := s.sessions[id]; ok {
		s.mu.Unlock()
		return h, nil
	}
	s.mu.Unlock()

	snapshot, err := s.store.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.New(errors.CodeNotFound, fmt.Sprintf("session %s not found", id))
		}
		return nil, errors.Wrap(errors.CodeStorageFailure, fmt.Sprintf("load session %s", id), err)
	}

	session, err := domain.FromSnapshot(snapshot)
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorageFailure, fmt.Sprintf("rehydrate session %s", id), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.sessions[id]; ok {
		// Raced another loader; keep the registered aggregate.
		return h, nil
	}
	h := &sessionHandle{session: session}
	s.sessions[id] = h
	return h, nil
}

// markDirty snapshots the session and schedules a debounced save.
func (s *Service) markDirty(session *domain.Session) (domain.Snapshot, error) {
	snapshot, err := session.ToSnapshot()
	if err != nil {
		return domain.Snapshot{}, errors.Wrap(errors.CodeStorageFailure, "snapshot session", err)
	}
	s.saver.MarkDirty(snapshot)
	return snapshot, nil
}

// flush snapshots the session and persists it before returning.
func (s *Service) flush(ctx context.Context, session *domain.Session) (domain.Snapshot, error) {
	snapshot, err := session.ToSnapshot()
	if err != nil {
		return domain.Snapshot{}, errors.Wrap(errors.CodeStorageFailure, "snapshot session", err)
	}
	if err := s.saver.Flush(ctx, snapshot); err != nil {
		return domain.Snapshot{}, errors.Wrap(errors.CodeStorageFailure,
			fmt.Sprintf("flush session %s", session.ID), err)
	}
	return snapshot, nil
}

// CheckGuess reports whether a free-text guess names the current profile.
// Advisory only: the group decides who gets the points.
func (s *Service) CheckGuess(ctx context.Context, id, guess string) (bool, error) {
	handle, err := s.handle(ctx, id)
	if err != nil {
		return false, err
	}
	handle.mu.Lock()
	defer handle.mu.Unlock()
	if handle.session.CurrentProfile == nil {
		return false, errors.New(errors.CodeNoCurrentProfile, "no profile in play")
	}
	return domain.MatchGuess(guess, *handle.session.CurrentProfile), nil
}

// RoundPoints returns the points a correct guess is worth right now.
func (s *Service) RoundPoints(ctx context.Context, id string) (int, error) {
	handle, err := s.handle(ctx, id)
	if err != nil {
		return 0, err
	}
	handle.mu.Lock()
	defer handle.mu.Unlock()
	return handle.session.RoundPoints(), nil
}

// selectionRNG returns the rng used for profile selection; nil delegates
// seeding to the selection package.
func (s *Service) selectionRNG() *rand.Rand {
	if s.newRNG == nil {
		return nil
	}
	return s.newRNG()
}
