package ports

import (
	"context"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// AdminRepository persists the AdminProfile companion records.
type AdminRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.AdminProfile, error)
	// Ensure returns the existing profile for userID or creates one with perms.
	Ensure(ctx context.Context, userID string, perms domain.Permissions) (*domain.AdminProfile, error)
	UpdatePermissions(ctx context.Context, userID string, perms domain.Permissions) (*domain.AdminProfile, error)
}
