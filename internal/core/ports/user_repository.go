package ports

import (
	"context"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// UserRepository defines persistence for identities.
type UserRepository interface {
	// Create stores a new user. Returns domain.ErrEmailInUse when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	UpdateName(ctx context.Context, id, name string) (*domain.User, error)
}

// Transactor runs fn so that its repository calls commit or roll back together
// when the backing store supports it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
