package ports

import (
	"context"

	"github.com/rmoraless/authgate/internal/core/domain"
)

// UserRepository defines the interface for user account persistence.
//
// ExistsByUsername followed by Create is not atomic; implementations must
// enforce username uniqueness themselves (e.g. a unique index) and return
// domain.ErrUserExists from Create when the constraint is violated.
type UserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
