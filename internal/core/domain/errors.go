package domain

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")

	ErrTokenExpired      = errors.New("token expired")
	ErrTokenBadSignature = errors.New("token signature mismatch")
	ErrTokenMalformed    = errors.New("token malformed")

	ErrUnauthenticated  = errors.New("authentication required")
	ErrForbidden        = errors.New("access forbidden")
	ErrTooManyAttempts  = errors.New("too many failed login attempts")
	ErrStoreUnavailable = errors.New("user store unavailable")
)

// TokenError reports whether err is one of the token verification failures.
// The HTTP boundary collapses all of them into a single generic 401 so that
// callers cannot distinguish a tampered token from an expired one.
func TokenError(err error) bool {
	return errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenBadSignature) ||
		errors.Is(err, ErrTokenMalformed)
}
