// Package domain models the game session aggregate: players, profiles,
// rounds, clue reveals, and the pending/active/completed lifecycle.
//
// A Session is owned by exactly one command handler at a time. All methods
// fail fast on invariant violations and leave state unchanged; the only
// specified fallbacks are identity clue order for sessions persisted before
// shuffling existed and substitution of missing selected profiles.
package domain
