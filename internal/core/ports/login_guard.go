package ports

import "context"

// LoginGuard throttles repeated failed login attempts per account.
type LoginGuard interface {
	// Allowed reports whether another login attempt may proceed for username.
	Allowed(ctx context.Context, username string) (bool, error)
	// RecordFailure notes one failed attempt for username.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
