package config

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestSigningKey_Valid(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}
	cfg := &Config{JWTSecret: base64.StdEncoding.EncodeToString(raw)}

	key, err := cfg.SigningKey()
	if err != nil {
		t.Fatalf("SigningKey: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("expected 32 key bytes, got %d", len(key))
	}
}

func TestSigningKey_NotBase64(t *testing.T) {
	cfg := &Config{JWTSecret: "not base64 !!!"}
	if _, err := cfg.SigningKey(); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
}

func TestSigningKey_TooShort(t *testing.T) {
	cfg := &Config{JWTSecret: base64.StdEncoding.EncodeToString([]byte("short"))}
	if _, err := cfg.SigningKey(); err == nil {
		t.Fatalf("expected error for short key")
	}
}

func TestTokenTTL(t *testing.T) {
	cfg := &Config{TokenTTLMinutes: 45}
	if got := cfg.TokenTTL(); got != 45*time.Minute {
		t.Fatalf("expected 45m, got %v", got)
	}
}
