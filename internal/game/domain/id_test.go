package domain

import (
	"strings"
	"testing"
)

func TestNewSessionID(t *testing.T) {
	id, err := NewSessionID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if !strings.HasPrefix(id, SessionIDPrefix) {
		t.Fatalf("id %q lacks prefix %q", id, SessionIDPrefix)
	}
	encoded := strings.TrimPrefix(id, SessionIDPrefix)
	if len(encoded) != 26 {
		t.Fatalf("expected 26 encoded characters, got %d in %q", len(encoded), id)
	}
	if encoded != strings.ToLower(encoded) {
		t.Fatalf("id should be lowercase: %q", id)
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewSessionID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
