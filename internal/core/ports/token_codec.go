package ports

import "github.com/rmoraless/authgate/internal/core/domain"

// TokenCodec issues and verifies signed, expiring bearer tokens.
type TokenCodec interface {
	// Issue produces a compact signed token with subject as the sub claim.
	Issue(subject string) (string, error)
	// Parse verifies the signature and expiry of raw and returns its claims.
	// Failures are domain.ErrTokenBadSignature, domain.ErrTokenMalformed or
	// domain.ErrTokenExpired.
	Parse(raw string) (domain.Claims, error)
}
