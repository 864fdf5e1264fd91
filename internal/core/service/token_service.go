package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rmoraless/authgate/internal/core/domain"
)

// TokenService issues and verifies HS256-signed JWTs. The signing key is
// process-wide, loaded once at startup and never rotated. Verification is
// pure apart from reading the clock, so no locking is needed for concurrent
// use.
type TokenService struct {
	key    []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService builds a TokenService. now is the clock used for issuance
// and expiry checks; pass nil to use time.Now. Injecting a fixed clock makes
// expiry behaviour deterministic in tests.
func NewTokenService(key []byte, ttl time.Duration, now func() time.Time) *TokenService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		key: key,
		ttl: ttl,
		now: now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(now),
			jwt.WithExpirationRequired(),
		),
	}
}

// Issue produces a compact signed token carrying subject, issued-at and
// expires-at claims.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.key)
}

// Parse verifies raw against the signing key and the clock, returning the
// embedded claims. Signature verification uses the library's constant-time
// HMAC comparison.
func (s *TokenService) Parse(raw string) (domain.Claims, error) {
	var rc jwt.RegisteredClaims
	tkn, err := s.parser.ParseWithClaims(raw, &rc, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil {
		return domain.Claims{}, mapTokenError(err)
	}
	if !tkn.Valid {
		return domain.Claims{}, domain.ErrTokenMalformed
	}

	claims := domain.Claims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		claims.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		claims.ExpiresAt = rc.ExpiresAt.Time
	}
	return claims, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return domain.ErrTokenBadSignature
	default:
		return domain.ErrTokenMalformed
	}
}
