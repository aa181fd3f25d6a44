package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/whoisit/internal/catalog"
	"github.com/louisbranch/whoisit/internal/errors"
	"github.com/louisbranch/whoisit/internal/game/autosave"
	"github.com/louisbranch/whoisit/internal/game/domain"
	"github.com/louisbranch/whoisit/internal/storage"
)

// memStore is an in-memory SessionStore for service tests.
type memStore struct {
	mu        sync.Mutex
	snapshots map[string]domain.Snapshot
}

func newMemStore() *memStore {
	return &memStore{snapshots: make(map[string]domain.Snapshot)}
}

func (m *memStore) Put(_ context.Context, snapshot domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.ID] = snapshot
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot, ok := m.snapshots[id]
	if !ok {
		return domain.Snapshot{}, storage.ErrNotFound
	}
	return snapshot, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	return nil
}

func (m *memStore) List(context.Context) ([]domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Snapshot, 0, len(m.snapshots))
	for _, snapshot := range m.snapshots {
		out = append(out, snapshot)
	}
	return out, nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = make(map[string]domain.Snapshot)
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) stored(id string) (domain.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot, ok := m.snapshots[id]
	return snapshot, ok
}

// fakeCatalog serves a fixed set of categories and profiles.
type fakeCatalog struct {
	profiles map[string][]domain.Profile
}

func newFakeCatalog(perCategory map[string]int) *fakeCatalog {
	profiles := make(map[string][]domain.Profile, len(perCategory))
	for slug, count := range perCategory {
		list := make([]domain.Profile, count)
		for i := range list {
			list[i] = domain.Profile{
				ID:       fmt.Sprintf("%s-%d", slug, i+1),
				Category: slug,
				Name:     fmt.Sprintf("%s person %d", slug, i+1),
				Clues:    []string{"clue one", "clue two", "clue three", "clue four"},
			}
		}
		profiles[slug] = list
	}
	return &fakeCatalog{profiles: profiles}
}

func (f *fakeCatalog) FetchManifest(context.Context) (catalog.Manifest, error) {
	manifest := catalog.Manifest{Version: "1"}
	for slug, list := range f.profiles {
		manifest.Categories = append(manifest.Categories, catalog.ManifestCategory{
			Slug: slug,
			Locales: map[string]catalog.CategoryLocale{
				"en": {Name: slug, ProfileAmount: len(list)},
			},
		})
	}
	return manifest, nil
}

func (f *fakeCatalog) FetchProfilesByCategory(_ context.Context, _, slug string) (catalog.ProfilesData, error) {
	list, ok := f.profiles[slug]
	if !ok {
		return catalog.ProfilesData{}, errors.New(errors.CodeProfilesFetchFailed,
			fmt.Sprintf("no such category %s", slug))
	}
	return catalog.ProfilesData{Profiles: list}, nil
}

func newTestService(t *testing.T, store *memStore, perCategory map[string]int) *Service {
	t.Helper()
	saver := autosave.New(store, 20*time.Millisecond, nil)
	t.Cleanup(func() {
		if err := saver.Close(context.Background()); err != nil {
			t.Fatalf("close saver: %v", err)
		}
	})
	return New(store, saver, newFakeCatalog(perCategory), "en")
}

func TestCreateSessionPersistsBeforeReturning(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6})

	snapshot, err := service.CreateSession(context.Background(), []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if snapshot.Status != "pending" {
		t.Fatalf("expected pending, got %s", snapshot.Status)
	}

	stored, ok := store.stored(snapshot.ID)
	if !ok {
		t.Fatal("create must flush to storage before returning")
	}
	if len(stored.Players) != 2 {
		t.Fatalf("stored roster mismatch: %+v", stored.Players)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6})

	_, err := service.CreateSession(context.Background(), []string{"Solo"})
	if !errors.IsCode(err, errors.CodeTooFewPlayers) {
		t.Fatalf("expected too few players, got %v", err)
	}
}

func TestStartGameSelectsProfiles(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6, "musicians": 3})
	ctx := context.Background()

	created, err := service.CreateSession(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	started, err := service.StartGame(ctx, created.ID, []string{"scientists", "musicians"}, 4)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != "active" {
		t.Fatalf("expected active, got %s", started.Status)
	}
	if started.NumberOfRounds != 4 || len(started.SelectedProfileIDs) != 4 {
		t.Fatalf("expected 4 rounds, got %d with %v", started.NumberOfRounds, started.SelectedProfileIDs)
	}
	if started.CurrentProfile == nil {
		t.Fatal("expected a profile in play")
	}

	stored, ok := store.stored(created.ID)
	if !ok || stored.Status != "active" {
		t.Fatal("start must flush the active state before returning")
	}
}

func TestStartGameDefaultRoundCount(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 3})
	ctx := context.Background()

	created, err := service.CreateSession(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	started, err := service.StartGame(ctx, created.ID, []string{"scientists"}, 0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.NumberOfRounds != 3 {
		t.Fatalf("default rounds should cap at availability, got %d", started.NumberOfRounds)
	}
}

func TestStartGameNotEnoughProfiles(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 2})
	ctx := context.Background()

	created, err := service.CreateSession(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = service.StartGame(ctx, created.ID, []string{"scientists"}, 10)
	if !errors.IsCode(err, errors.CodeNotEnoughProfiles) {
		t.Fatalf("expected not enough profiles, got %v", err)
	}
}

func TestFullGameFlow(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6})
	ctx := context.Background()

	created, err := service.CreateSession(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.StartGame(ctx, created.ID, []string{"scientists"}, 1); err != nil {
		t.Fatalf("start: %v", err)
	}

	clue, snapshot, err := service.RevealNextClue(ctx, created.ID)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if clue == "" || snapshot.CluesRevealed != 1 {
		t.Fatalf("unexpected reveal result: %q, %d", clue, snapshot.CluesRevealed)
	}

	points, err := service.RoundPoints(ctx, created.ID)
	if err != nil {
		t.Fatalf("round points: %v", err)
	}
	if points != 4 {
		t.Fatalf("expected 4 points after one reveal of four clues, got %d", points)
	}

	final, err := service.AwardPoints(ctx, created.ID, "player-1", 0)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if final.Status != "completed" {
		t.Fatalf("single-round game should complete on award, got %s", final.Status)
	}
	if final.Players[0].Score != 4 {
		t.Fatalf("expected score 4, got %d", final.Players[0].Score)
	}

	// The completion write must be durable before AwardPoints returns, even
	// though earlier mutations were only debounced.
	stored, ok := store.stored(created.ID)
	if !ok || stored.Status != "completed" {
		t.Fatalf("final score not flushed: %+v", stored)
	}
	if stored.Players[0].Score != 4 {
		t.Fatalf("stored score mismatch: %+v", stored.Players)
	}

	rankings, err := service.Rankings(ctx, created.ID)
	if err != nil {
		t.Fatalf("rankings: %v", err)
	}
	if rankings[0].Player.ID != "player-1" || rankings[0].Rank != 1 {
		t.Fatalf("unexpected rankings: %+v", rankings)
	}
}

func TestSessionSurvivesServiceRestart(t *testing.T) {
	store := newMemStore()
	first := newTestService(t, store, map[string]int{"scientists": 6})
	ctx := context.Background()

	created, err := first.CreateSession(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := first.StartGame(ctx, created.ID, []string{"scientists"}, 2); err != nil {
		t.Fatalf("start: %v", err)
	}
	firstClue, _, err := first.RevealNextClue(ctx, created.ID)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if _, err := first.FinishGame(ctx, created.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}

	// A fresh service has an empty registry and must rehydrate from storage.
	second := newTestService(t, store, map[string]int{"scientists": 6})
	loaded, err := second.LoadSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Status != "completed" {
		t.Fatalf("expected completed after restart, got %s", loaded.Status)
	}
	if len(loaded.RevealedClueHistory) != 1 || loaded.RevealedClueHistory[0] != firstClue {
		t.Fatalf("clue history lost across restart: %v", loaded.RevealedClueHistory)
	}
}

func TestLoadSessionNotFound(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6})

	_, err := service.LoadSession(context.Background(), "game-missing")
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdvanceProfileMovesRounds(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6})
	ctx := context.Background()

	created, err := service.CreateSession(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.StartGame(ctx, created.ID, []string{"scientists"}, 3); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.AwardPoints(ctx, created.ID, "player-2", 2); err != nil {
		t.Fatalf("award: %v", err)
	}

	advanced, err := service.AdvanceProfile(ctx, created.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if advanced.CurrentRound != 2 {
		t.Fatalf("expected round 2, got %d", advanced.CurrentRound)
	}
	if advanced.CluesRevealed != 0 || advanced.RoundRevealed {
		t.Fatalf("turn state should reset: %+v", advanced)
	}
}

func TestResetGameSamePlayers(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6})
	ctx := context.Background()

	created, err := service.CreateSession(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.StartGame(ctx, created.ID, []string{"scientists"}, 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.AwardPoints(ctx, created.ID, "player-1", 5); err != nil {
		t.Fatalf("award: %v", err)
	}

	reset, err := service.ResetGame(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.ID != created.ID {
		t.Fatal("same-players reset should keep the session id")
	}
	if reset.Status != "pending" {
		t.Fatalf("expected pending, got %s", reset.Status)
	}
	for _, p := range reset.Players {
		if p.Score != 0 {
			t.Fatalf("scores should be zeroed, got %d", p.Score)
		}
	}
}

func TestResetGameNewPlayersRekeysRegistry(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6})
	ctx := context.Background()

	created, err := service.CreateSession(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	reset, err := service.ResetGame(ctx, created.ID, false)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.ID == created.ID {
		t.Fatal("full reset should allocate a new id")
	}

	// The new id must resolve to the same live aggregate.
	loaded, err := service.LoadSession(ctx, reset.ID)
	if err != nil {
		t.Fatalf("load by new id: %v", err)
	}
	if loaded.Status != "pending" || len(loaded.Players) != 0 {
		t.Fatalf("unexpected state after full reset: %+v", loaded)
	}
}

func TestCheckGuess(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6})
	ctx := context.Background()

	created, err := service.CreateSession(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// No profile in play yet.
	if _, err := service.CheckGuess(ctx, created.ID, "anyone"); !errors.IsCode(err, errors.CodeNoCurrentProfile) {
		t.Fatalf("expected no current profile, got %v", err)
	}

	started, err := service.StartGame(ctx, created.ID, []string{"scientists"}, 1)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	match, err := service.CheckGuess(ctx, created.ID, started.CurrentProfile.Name)
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if !match {
		t.Fatal("exact name should match")
	}

	match, err = service.CheckGuess(ctx, created.ID, "definitely wrong answer")
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if match {
		t.Fatal("unrelated guess should not match")
	}
}

func TestCategories(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6, "musicians": 3})

	slugs, err := service.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(slugs) != 2 {
		t.Fatalf("expected 2 categories, got %v", slugs)
	}
}

func TestAvailableProfiles(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6, "musicians": 3})
	ctx := context.Background()

	total, err := service.AvailableProfiles(ctx, []string{"scientists", "musicians"})
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if total != 9 {
		t.Fatalf("expected 9 profiles, got %d", total)
	}

	if _, err := service.AvailableProfiles(ctx, nil); !errors.IsCode(err, errors.CodeCategoriesEmpty) {
		t.Fatalf("expected categories empty, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, map[string]int{"scientists": 6})
	ctx := context.Background()

	created, err := service.CreateSession(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := service.DeleteSession(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := service.LoadSession(ctx, created.ID); !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
