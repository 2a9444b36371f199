package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestIssuer(t *testing.T, now time.Time, opts ...TokenIssuerOption) *TokenIssuer {
	t.Helper()
	opts = append(opts, WithTokenClock(func() time.Time { return now }))
	issuer, err := NewTokenIssuer([]byte("test-signing-key"), "storefront-test", opts...)
	if err != nil {
		t.Fatalf("unexpected error constructing issuer: %v", err)
	}
	return issuer
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, now)

	token, err := issuer.Issue("user-1", "Mika", "mika@example.com", "sess-1")
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	identity, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}
	if identity.UserID != "user-1" {
		t.Fatalf("expected user id user-1, got %q", identity.UserID)
	}
	if identity.SessionID != "sess-1" {
		t.Fatalf("expected session id sess-1, got %q", identity.SessionID)
	}
	if identity.Email != "mika@example.com" {
		t.Fatalf("expected email, got %q", identity.Email)
	}
	if identity.Name != "Mika" {
		t.Fatalf("expected name, got %q", identity.Name)
	}
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, issued, WithSessionTTL(time.Hour))

	token, err := issuer.Issue("user-1", "", "", "sess-1")
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	late := newTestIssuer(t, issued.Add(2*time.Hour), WithSessionTTL(time.Hour))
	if _, err := late.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuerRejectsTamperedToken(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, now)

	token, err := issuer.Issue("user-1", "", "", "sess-1")
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	other, err := NewTokenIssuer([]byte("different-key"), "storefront-test", WithTokenClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("unexpected error constructing issuer: %v", err)
	}
	if _, err := other.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenIssuerRejectsWrongIssuer(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, now)

	token, err := issuer.Issue("user-1", "", "", "sess-1")
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	other, err := NewTokenIssuer([]byte("test-signing-key"), "someone-else", WithTokenClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("unexpected error constructing issuer: %v", err)
	}
	if _, err := other.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenIssuerRejectsEmptyToken(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, now)
	if _, err := issuer.Verify("  "); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
