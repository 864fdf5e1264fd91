package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rmoraless/authgate/internal/core/domain"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenService_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService(testKey, time.Hour, fixedClock(now))

	raw, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if raw == "" {
		t.Fatalf("expected non-empty token")
	}

	claims, err := svc.Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if !claims.IssuedAt.Equal(now) {
		t.Fatalf("expected issued at %v, got %v", now, claims.IssuedAt)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", now.Add(time.Hour), claims.ExpiresAt)
	}
}

func TestTokenService_ValidUntilExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenService(testKey, time.Hour, fixedClock(issuedAt))

	raw, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Any instant strictly before expiry verifies.
	verifier := NewTokenService(testKey, time.Hour, fixedClock(issuedAt.Add(time.Hour-time.Second)))
	if _, err := verifier.Parse(raw); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenService(testKey, time.Hour, fixedClock(issuedAt))

	raw, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	for _, offset := range []time.Duration{time.Hour, time.Hour + time.Second, 48 * time.Hour} {
		verifier := NewTokenService(testKey, time.Hour, fixedClock(issuedAt.Add(offset)))
		if _, err := verifier.Parse(raw); !errors.Is(err, domain.ErrTokenExpired) {
			t.Fatalf("offset %v: expected ErrTokenExpired, got %v", offset, err)
		}
	}
}

func TestTokenService_TamperedSignature(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService(testKey, time.Hour, fixedClock(now))

	raw, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3-part token, got %d parts", len(parts))
	}

	// Flip the last character of the signature segment.
	sig := parts[2]
	last := sig[len(sig)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	tampered := parts[0] + "." + parts[1] + "." + sig[:len(sig)-1] + string(replacement)

	if _, err := svc.Parse(tampered); !errors.Is(err, domain.ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}
}

func TestTokenService_TamperedClaims(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService(testKey, time.Hour, fixedClock(now))

	raw, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Swap the subject inside the claims segment while keeping the original
	// signature. Verification must fail, never return the forged subject.
	parts := strings.Split(raw, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode claims: %v", err)
	}
	forged := strings.Replace(string(payload), "alice", "mallory", 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	claims, err := svc.Parse(strings.Join(parts, "."))
	if err == nil {
		t.Fatalf("forged token verified, claims=%+v", claims)
	}
	if !errors.Is(err, domain.ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}
}

func TestTokenService_WrongKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenService(testKey, time.Hour, fixedClock(now))
	verifier := NewTokenService([]byte("another-key-another-key-another!"), time.Hour, fixedClock(now))

	raw, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := verifier.Parse(raw); !errors.Is(err, domain.ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService(testKey, time.Hour, nil)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d", "not.a.token"} {
		if _, err := svc.Parse(raw); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("input %q: expected ErrTokenMalformed, got %v", raw, err)
		}
	}
}

func TestTokenService_RejectsUnsignedAlg(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService(testKey, time.Hour, fixedClock(now))

	header, _ := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	payload, _ := json.Marshal(map[string]any{
		"sub": "alice",
		"exp": now.Add(time.Hour).Unix(),
	})
	raw := base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "."

	if _, err := svc.Parse(raw); !domain.TokenError(err) {
		t.Fatalf("expected a token error for alg=none, got %v", err)
	}
}
