package services

import (
	"encoding/base64"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestCSRFTokens_ValidForItsPurposeOnly(t *testing.T) {
	service := newTestCSRF(t, time.Hour)

	token, err := service.Create("report-submit")
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}

	if !service.Verify("report-submit", token) {
		t.Fatalf("expected token to validate for its own purpose")
	}
	if service.Verify("admin-action", token) {
		t.Fatalf("token minted for one purpose must never validate for another")
	}
	if service.Verify("", token) {
		t.Fatalf("empty purpose must never validate")
	}
}

func TestCSRFTokens_TTLBoundaries(t *testing.T) {
	service := newTestCSRF(t, time.Hour)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	service.WithClock(func() time.Time { return now })

	token, err := service.Create("report-submit")
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}

	now = start.Add(time.Hour - time.Millisecond)
	if !service.Verify("report-submit", token) {
		t.Fatalf("expected token to be valid just before TTL")
	}

	now = start.Add(time.Hour)
	if service.Verify("report-submit", token) {
		t.Fatalf("expected token to be invalid exactly at TTL")
	}

	now = start.Add(time.Hour + time.Millisecond)
	if service.Verify("report-submit", token) {
		t.Fatalf("expected token to be invalid after TTL")
	}
}

func TestCSRFTokens_FutureIssuedAtRejected(t *testing.T) {
	service := newTestCSRF(t, time.Hour)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	service.WithClock(func() time.Time { return now })

	token, err := service.Create("report-submit")
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}

	// Clock moved backwards: the token now claims to come from the future.
	now = start.Add(-time.Minute)
	if service.Verify("report-submit", token) {
		t.Fatalf("expected future-issued token to be rejected")
	}
}

func TestCSRFTokens_TamperedTokenRejected(t *testing.T) {
	service := newTestCSRF(t, time.Hour)

	token, err := service.Create("report-submit")
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("failed to decode token: %v", err)
	}
	// Flip one byte somewhere in the middle of the payload.
	raw[len(raw)/2] ^= 0x01
	tampered := base64.RawURLEncoding.EncodeToString(raw)

	if service.Verify("report-submit", tampered) {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestCSRFTokens_MalformedTokensRejected(t *testing.T) {
	service := newTestCSRF(t, time.Hour)

	for _, token := range []string{"", "not-base64!!", base64.RawURLEncoding.EncodeToString([]byte("v1|only|three"))} {
		if service.Verify("report-submit", token) {
			t.Fatalf("expected malformed token %q to be rejected", token)
		}
	}
}

func TestCSRFTokens_EmptyPurposeRejectedOnCreate(t *testing.T) {
	service := newTestCSRF(t, time.Hour)

	if _, err := service.Create("   "); err == nil {
		t.Fatalf("expected empty purpose to be rejected")
	}
	if _, err := service.Create("has|separator"); err == nil {
		t.Fatalf("expected purpose with separator to be rejected")
	}
}

func newTestCSRF(t *testing.T, ttl time.Duration) *CSRFTokens {
	t.Helper()
	service, err := NewCSRFTokens(testSecret, ttl, true)
	if err != nil {
		t.Fatalf("failed to create csrf service: %v", err)
	}
	return service
}
