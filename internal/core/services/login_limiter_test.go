package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
)

func TestLoginLimiter_MissingIdentifierFailsClosed(t *testing.T) {
	limiter := newTestLoginLimiter(t, &mockLoginStore{})
	ctx := context.Background()

	locked, err := limiter.IsLocked(ctx, "  ", time.Now())
	if !locked {
		t.Fatalf("expected fail-closed lock for blank identifier")
	}
	if !errors.Is(err, domain.ErrMissingIdentifier) {
		t.Fatalf("expected missing identifier error, got %v", err)
	}

	locked, err = limiter.IsLocked(ctx, domain.UnknownIdentifier, time.Now())
	if !locked || !errors.Is(err, domain.ErrMissingIdentifier) {
		t.Fatalf("expected sentinel identifier to fail closed, locked=%v err=%v", locked, err)
	}
}

func TestLoginLimiter_StoreErrorFailsClosed(t *testing.T) {
	store := &mockLoginStore{err: errors.New("backend down")}
	limiter := newTestLoginLimiter(t, store)

	locked, err := limiter.IsLocked(context.Background(), "abc123", time.Now())
	if !locked {
		t.Fatalf("expected fail-closed lock when the backend is unavailable")
	}
	// The underlying error must surface untouched, never disguised as denial.
	if err == nil || domain.IsAdmissionDenied(err) {
		t.Fatalf("expected infrastructure error to pass through, got %v", err)
	}
}

func TestLoginLimiter_DelegatesToStore(t *testing.T) {
	store := &mockLoginStore{}
	limiter := newTestLoginLimiter(t, store)
	ctx := context.Background()
	now := time.Now()

	if err := limiter.RegisterFailure(ctx, "abc123", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.failures != 1 {
		t.Fatalf("expected one registered failure, got %d", store.failures)
	}

	if err := limiter.Reset(ctx, "abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.resets != 1 {
		t.Fatalf("expected one reset, got %d", store.resets)
	}
}

func newTestLoginLimiter(t *testing.T, store *mockLoginStore) *LoginLimiter {
	t.Helper()
	limiter, err := NewLoginLimiter(store)
	if err != nil {
		t.Fatalf("failed to create login limiter: %v", err)
	}
	return limiter
}

type mockLoginStore struct {
	locked   bool
	failures int
	resets   int
	err      error
}

func (m *mockLoginStore) IsLocked(_ context.Context, _ string, _ time.Time) (bool, error) {
	return m.locked, m.err
}

func (m *mockLoginStore) RegisterFailure(_ context.Context, _ string, _ time.Time) error {
	m.failures++
	return m.err
}

func (m *mockLoginStore) Reset(_ context.Context, _ string) error {
	m.resets++
	return m.err
}
