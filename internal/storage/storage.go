// Package storage defines the persistence contract for game sessions.
//
// Stores are durable key-value maps from session id to the full session
// snapshot. Writes are idempotent upserts with last-write-wins semantics;
// a missing record is signaled with ErrNotFound, never by a zero value,
// and is distinct from an I/O failure.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/whoisit/internal/game/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// SessionStore persists game session snapshots.
type SessionStore interface {
	// Put upserts a full session snapshot keyed by its id.
	Put(ctx context.Context, snapshot domain.Snapshot) error
	// Get fetches the snapshot for a session id or ErrNotFound.
	Get(ctx context.Context, id string) (domain.Snapshot, error)
	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
	// List returns every stored snapshot.
	List(ctx context.Context) ([]domain.Snapshot, error)
	// Clear removes every stored snapshot.
	Clear(ctx context.Context) error
	// Close releases the underlying store.
	Close() error
}
