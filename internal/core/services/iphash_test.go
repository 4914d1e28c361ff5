package services

import (
	"errors"
	"testing"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
)

func TestIPHasher_Deterministic(t *testing.T) {
	hasher := newTestHasher(t, "0123456789abcdef")

	first, err := hasher.Hash("203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := hasher.Hash("203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected deterministic hash, got %s and %s", first, second)
	}
	if first == "203.0.113.7" {
		t.Fatalf("hash must not equal the raw address")
	}
}

func TestIPHasher_SaltChangesOutput(t *testing.T) {
	first, err := newTestHasher(t, "0123456789abcdef").Hash("203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := newTestHasher(t, "fedcba9876543210").Hash("203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatalf("expected different salts to produce different hashes")
	}
}

func TestIPHasher_EmptyAddressIsMissingIdentifier(t *testing.T) {
	hasher := newTestHasher(t, "0123456789abcdef")

	if _, err := hasher.Hash("   "); !errors.Is(err, domain.ErrMissingIdentifier) {
		t.Fatalf("expected missing identifier error, got %v", err)
	}
}

func TestIPHasher_ShortSaltRejectedInProduction(t *testing.T) {
	if _, err := NewIPHasher("short", true); err == nil {
		t.Fatalf("expected short salt to be rejected in production")
	}

	// Development mode falls back to the labeled constant instead of crashing.
	hasher, err := NewIPHasher("short", false)
	if err != nil {
		t.Fatalf("unexpected error in development mode: %v", err)
	}
	if _, err := hasher.Hash("203.0.113.7"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func newTestHasher(t *testing.T, salt string) *IPHasher {
	t.Helper()
	hasher, err := NewIPHasher(salt, true)
	if err != nil {
		t.Fatalf("failed to create ip hasher: %v", err)
	}
	return hasher
}
