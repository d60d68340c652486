package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/batagalla/mushmind-detector/internal/api/metrics"
	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

const (
	identityKey     = "identity"
	adminProfileKey = "admin_profile"
)

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// IdentityLoader re-reads the user on every request so role changes apply
// immediately.
type IdentityLoader interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth validates the bearer token, loads the user and stores it in the context.
func Auth(tokens TokenValidator, users IdentityLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized("missing authorization header", domain.ErrUnauthorized)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return unauthorized("invalid authorization header", domain.ErrUnauthorized)
			}

			userID, err := tokens.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return unauthorized("token expired", err)
				}
				return unauthorized("invalid token", err)
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if errors.Is(err, domain.ErrNotFound) {
				return unauthorized("user no longer exists", err)
			}
			if err != nil {
				return err
			}

			metrics.AuthDecisionsTotal.WithLabelValues("authenticate", "allowed").Inc()
			c.Set(identityKey, user)
			return next(c)
		}
	}
}

// IdentityFrom returns the user stored by Auth.
func IdentityFrom(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(identityKey).(*domain.User)
	return u, ok && u != nil
}

// SetIdentity stores user as the authenticated identity. Used by tests.
func SetIdentity(c echo.Context, user *domain.User) {
	c.Set(identityKey, user)
}

func unauthorized(msg string, cause error) error {
	metrics.AuthDecisionsTotal.WithLabelValues("authenticate", "unauthorized").Inc()
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(cause)
}
