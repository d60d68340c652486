package ports

import (
	"context"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name string) (*domain.User, error)
}

// TokenService issues and validates session tokens.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	// Validate returns the subject user ID, or an error matching domain.ErrInvalidToken.
	Validate(token string) (string, error)
}
