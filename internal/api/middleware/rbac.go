package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/batagalla/mushmind-detector/internal/api/metrics"
	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// AdminProfileLoader fetches the companion profile of an admin.
type AdminProfileLoader interface {
	FindByUserID(ctx context.Context, userID string) (*domain.AdminProfile, error)
}

// RequireAdmin must run after Auth. It admits admins that have a profile and
// every permission in perms.
func RequireAdmin(admins AdminProfileLoader, perms ...domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := IdentityFrom(c)
			if !ok {
				metrics.AuthDecisionsTotal.WithLabelValues("admin", "unauthorized").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated").SetInternal(domain.ErrUnauthorized)
			}

			switch user.Role {
			case domain.RoleAdmin:
			case domain.RoleUser:
				return forbidden("admin access required")
			default:
				return forbidden("admin access required")
			}

			profile, err := admins.FindByUserID(c.Request().Context(), user.ID)
			if errors.Is(err, domain.ErrNotFound) {
				return forbidden("admin profile missing")
			}
			if err != nil {
				return err
			}
			for _, p := range perms {
				if !profile.Permissions.Allows(p) {
					return forbidden("missing permission: " + string(p))
				}
			}

			metrics.AuthDecisionsTotal.WithLabelValues("admin", "allowed").Inc()
			c.Set(adminProfileKey, profile)
			return next(c)
		}
	}
}

// AdminProfileFrom returns the profile stored by RequireAdmin.
func AdminProfileFrom(c echo.Context) (*domain.AdminProfile, bool) {
	p, ok := c.Get(adminProfileKey).(*domain.AdminProfile)
	return p, ok && p != nil
}

func forbidden(msg string) error {
	metrics.AuthDecisionsTotal.WithLabelValues("admin", "forbidden").Inc()
	return echo.NewHTTPError(http.StatusForbidden, msg).SetInternal(domain.ErrForbidden)
}
