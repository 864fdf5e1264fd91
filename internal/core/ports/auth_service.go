package ports

import (
	"context"

	"github.com/rmoraless/authgate/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
}
