package pseudonym

import (
	"strings"
	"testing"
)

func TestDeriveIsStable(t *testing.T) {
	first := Derive(42, 7)
	for i := 0; i < 10; i++ {
		if got := Derive(42, 7); got != first {
			t.Fatalf("pseudonym changed between calls: %q vs %q", first, got)
		}
	}
}

func TestDeriveShape(t *testing.T) {
	name := Derive(1, 1)
	parts := strings.Split(name, " ")
	if len(parts) != 2 {
		t.Fatalf("expected \"Adjective Noun\", got %q", name)
	}
	for _, p := range parts {
		if p == "" {
			t.Fatalf("empty word in %q", name)
		}
	}
}

func TestDeriveVariesAcrossPubs(t *testing.T) {
	// No strict uniqueness guarantee, but the same user should get distinct
	// names in most pubs. Over 50 pubs a handful of collisions is fine; all
	// 50 identical would mean the pub id is not feeding the seed.
	seen := make(map[string]bool)
	for pub := 1; pub <= 50; pub++ {
		seen[Derive(42, pub)] = true
	}
	if len(seen) < 10 {
		t.Fatalf("expected varied pseudonyms across pubs, got %d distinct of 50", len(seen))
	}
}

func TestDeriveVariesAcrossUsers(t *testing.T) {
	seen := make(map[string]bool)
	for user := 1; user <= 50; user++ {
		seen[Derive(user, 7)] = true
	}
	if len(seen) < 10 {
		t.Fatalf("expected varied pseudonyms across users, got %d distinct of 50", len(seen))
	}
}
