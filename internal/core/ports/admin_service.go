package ports

import (
	"context"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// UpdateRole changes a user's role and provisions an AdminProfile on promotion.
	UpdateRole(ctx context.Context, userID, role string) (*domain.User, error)
	UpdatePermissions(ctx context.Context, userID string, perms domain.Permissions) (*domain.AdminProfile, error)
	Stats(ctx context.Context) (*domain.DashboardStats, error)
	SystemSettings(ctx context.Context) (*domain.SystemSettings, error)
	UpdateSystemSettings(ctx context.Context, actor *domain.User, s domain.SystemSettings) (*domain.SystemSettings, error)
	ModelSettings(ctx context.Context) (*domain.ModelSettings, error)
	UpdateModelSettings(ctx context.Context, actor *domain.User, s domain.ModelSettings) (*domain.ModelSettings, error)
}
