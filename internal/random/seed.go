// Package random provides seed generation helpers.
//
// It uses crypto/rand for high-entropy seeds and FNV hashing to derive
// stable seeds from strings, so that the same string always reproduces
// the same pseudo-random sequence across process restarts.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// SeedFromString derives a deterministic seed from an arbitrary string.
func SeedFromString(value string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(value))
	return int64(h.Sum64())
}
