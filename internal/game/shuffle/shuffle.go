// Package shuffle decides the reveal order of clues for a profile.
//
// Each profile gets one permutation of its clue indices, generated lazily on
// the first reveal and persisted with the session so that reloading the same
// session reproduces the exact same order. Sessions that predate shuffle
// storage have no entry and fall back to identity order.
package shuffle

import (
	"math/rand"

	"github.com/louisbranch/whoisit/internal/random"
)

// Map associates a profile id with the permutation of its clue indices.
type Map map[string][]int

// Generate produces a Fisher-Yates shuffle of [0..length-1].
//
// A non-empty seed makes the shuffle fully deterministic: the same
// (length, seed) pair always yields the same sequence, across process
// restarts. An empty seed falls back to a non-deterministic source.
func Generate(length int, seed string) []int {
	if length <= 0 {
		return []int{}
	}

	perm := make([]int, length)
	for i := range perm {
		perm[i] = i
	}
	if length == 1 {
		return perm
	}

	var rng *rand.Rand
	if seed != "" {
		rng = rand.New(rand.NewSource(random.SeedFromString(seed)))
	} else {
		entropy, err := random.NewSeed()
		if err != nil {
			// crypto/rand is unavailable; identity order is still a valid reveal order.
			return perm
		}
		rng = rand.New(rand.NewSource(entropy))
	}

	for i := length - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// Identity returns the identity permutation [0..length-1].
func Identity(length int) []int {
	if length <= 0 {
		return []int{}
	}
	perm := make([]int, length)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// ResolveClue maps a 1-based display position to the clue it reveals.
// The bool is false when the position or the resolved index is out of bounds.
func ResolveClue(clues []string, displayPosition int, perm []int) (string, bool) {
	if displayPosition < 1 || displayPosition > len(clues) {
		return "", false
	}
	if displayPosition > len(perm) {
		return "", false
	}
	index := perm[displayPosition-1]
	if index < 0 || index >= len(clues) {
		return "", false
	}
	return clues[index], true
}

// GetOrCreate returns the stored permutation for profileID when one exists.
// Stored data is authoritative: clueCount is ignored for stored entries.
// When no entry exists the identity permutation is returned, preserving the
// natural clue order of sessions created before shuffling was introduced.
func GetOrCreate(m Map, profileID string, clueCount int) []int {
	if m != nil {
		if perm, ok := m[profileID]; ok {
			return perm
		}
	}
	return Identity(clueCount)
}

// Serialize converts the map into a plain key to index-slice object.
func Serialize(m Map) map[string][]int {
	out := make(map[string][]int, len(m))
	for profileID, perm := range m {
		cloned := make([]int, len(perm))
		copy(cloned, perm)
		out[profileID] = cloned
	}
	return out
}

// Deserialize rebuilds a Map from a decoded JSON object.
//
// Entries whose value is not an array of numbers are skipped rather than
// rejected, tolerating partially corrupt persisted data.
func Deserialize(raw map[string]any) Map {
	m := make(Map, len(raw))
	for profileID, value := range raw {
		entries, ok := value.([]any)
		if !ok {
			continue
		}
		perm := make([]int, 0, len(entries))
		valid := true
		for _, entry := range entries {
			number, ok := entry.(float64)
			if !ok {
				valid = false
				break
			}
			perm = append(perm, int(number))
		}
		if !valid {
			continue
		}
		m[profileID] = perm
	}
	return m
}
