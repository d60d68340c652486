package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
	"github.com/batagalla/mushmind-detector/internal/core/ports"
)

// AdminService covers user management, dashboard stats and platform settings.
type AdminService struct {
	users    ports.UserRepository
	admins   ports.AdminRepository
	settings ports.SettingsRepository
	stats    ports.StatsRepository
	tx       ports.Transactor
	log      zerolog.Logger
}

func NewAdminService(
	users ports.UserRepository,
	admins ports.AdminRepository,
	settings ports.SettingsRepository,
	stats ports.StatsRepository,
	tx ports.Transactor,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:    users,
		admins:   admins,
		settings: settings,
		stats:    stats,
		tx:       tx,
		log:      log,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// UpdateRole sets a user's role. On promotion the AdminProfile is provisioned
// before the role flips, so an admin without a profile is never observable.
// Demotion keeps the profile; it is ignored while the role is user.
func (s *AdminService) UpdateRole(ctx context.Context, userID, rawRole string) (*domain.User, error) {
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}

	var updated *domain.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, userID); err != nil {
			return err
		}
		if role == domain.RoleAdmin {
			if _, err := s.admins.Ensure(ctx, userID, domain.DefaultPermissions()); err != nil {
				return fmt.Errorf("provision admin profile: %w", err)
			}
		}
		u, err := s.users.UpdateRole(ctx, userID, role)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Str("role", string(role)).Msg("user role updated")
	return updated, nil
}

func (s *AdminService) UpdatePermissions(ctx context.Context, userID string, perms domain.Permissions) (*domain.AdminProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, domain.ErrAdminProfileNotFound
	}
	return s.admins.UpdatePermissions(ctx, userID, perms)
}

// EnsureDefaultAdmin makes sure the bootstrap admin account exists with a
// full-permission profile. It is safe to call on every start.
func (s *AdminService) EnsureDefaultAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Invalid("default admin email and password are required")
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}

	var admin *domain.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.users.FindByEmail(ctx, email)
		switch {
		case err == nil:
			if _, err := s.admins.Ensure(ctx, existing.ID, domain.FullPermissions()); err != nil {
				return err
			}
			// Ensure keeps an existing profile as is.
			if _, err := s.admins.UpdatePermissions(ctx, existing.ID, domain.FullPermissions()); err != nil {
				return err
			}
			if existing.IsAdmin() {
				admin = existing
				return nil
			}
			admin, err = s.users.UpdateRole(ctx, existing.ID, domain.RoleAdmin)
			return err
		case errors.Is(err, domain.ErrNotFound):
		default:
			return err
		}

		hash, err := hashPassword(password)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		created, err := s.users.Create(ctx, &domain.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}
		if _, err := s.admins.Ensure(ctx, created.ID, domain.FullPermissions()); err != nil {
			return err
		}
		admin = created
		s.log.Info().Str("email", email).Msg("default admin created")
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ensure default admin: %w", err)
	}
	return admin, nil
}

func (s *AdminService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var (
		out domain.DashboardStats
		err error
	)
	if out.TotalUsers, err = s.stats.CountUsers(ctx); err != nil {
		return nil, fmt.Errorf("stats: users: %w", err)
	}
	if out.TotalImages, err = s.stats.CountImages(ctx); err != nil {
		return nil, fmt.Errorf("stats: images: %w", err)
	}
	if out.TotalSearches, err = s.stats.CountSearches(ctx); err != nil {
		return nil, fmt.Errorf("stats: searches: %w", err)
	}
	if out.PendingFeedback, err = s.stats.CountPendingFeedback(ctx); err != nil {
		return nil, fmt.Errorf("stats: feedback: %w", err)
	}
	model, err := s.settings.GetModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: model settings: %w", err)
	}
	out.ModelAccuracy = model.AccuracyScore
	return &out, nil
}

func (s *AdminService) SystemSettings(ctx context.Context) (*domain.SystemSettings, error) {
	return s.settings.GetSystem(ctx)
}

func (s *AdminService) UpdateSystemSettings(ctx context.Context, actor *domain.User, in domain.SystemSettings) (*domain.SystemSettings, error) {
	if in.ImageSizeLimitMB <= 0 {
		return nil, domain.Invalid("imageSizeLimit must be positive")
	}
	if in.RetentionPeriodDays <= 0 {
		return nil, domain.Invalid("retentionPeriod must be positive")
	}
	in.UpdatedAt = time.Now().UTC()
	in.UpdatedBy = actor.ID
	return s.settings.SaveSystem(ctx, in)
}

func (s *AdminService) ModelSettings(ctx context.Context) (*domain.ModelSettings, error) {
	return s.settings.GetModel(ctx)
}

func (s *AdminService) UpdateModelSettings(ctx context.Context, actor *domain.User, in domain.ModelSettings) (*domain.ModelSettings, error) {
	if in.ConfidenceThreshold < 0 || in.ConfidenceThreshold > 1 {
		return nil, domain.Invalid("confidenceThreshold must be between 0 and 1")
	}
	if in.AccuracyScore < 0 || in.AccuracyScore > 1 {
		return nil, domain.Invalid("accuracyScore must be between 0 and 1")
	}
	if in.DatasetSize < 0 {
		return nil, domain.Invalid("datasetSize must not be negative")
	}
	in.UpdatedAt = time.Now().UTC()
	in.UpdatedBy = actor.ID
	return s.settings.SaveModel(ctx, in)
}
