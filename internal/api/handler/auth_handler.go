package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/batagalla/mushmind-detector/internal/api/metrics"
	"github.com/batagalla/mushmind-detector/internal/core/domain"
	"github.com/batagalla/mushmind-detector/internal/core/ports"
)

// LoginLimiter throttles repeated failed logins. Implemented on Redis.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type AuthHandler struct {
	authService ports.AuthService
	limiter     LoginLimiter
	log         zerolog.Logger
}

// NewAuthHandler builds the handler. limiter may be nil to disable throttling.
func NewAuthHandler(authService ports.AuthService, limiter LoginLimiter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter, log: log}
}

// Register creates a new user account and logs it in.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	key := domain.NormalizeEmail(req.Email) + "|" + c.RealIP()

	if h.limiter != nil {
		ok, err := h.limiter.Allow(ctx, key)
		if err != nil {
			// fail open: the throttle must not lock everybody out when Redis is down
			h.log.Warn().Err(err).Msg("login limiter unavailable")
		} else if !ok {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return domain.ErrTooManyAttempts
		}
	}

	token, user, err := h.authService.Login(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		if h.limiter != nil {
			if ferr := h.limiter.Fail(ctx, key); ferr != nil {
				h.log.Warn().Err(ferr).Msg("record failed login")
			}
		}
		return err
	case err != nil:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	if h.limiter != nil {
		if rerr := h.limiter.Reset(ctx, key); rerr != nil {
			h.log.Warn().Err(rerr).Msg("reset login limiter")
		}
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Profile returns the authenticated user.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Profile(c.Request().Context(), u.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// UpdateProfile changes the display name of the authenticated user.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "New profile values"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	user, err := h.authService.UpdateProfile(c.Request().Context(), u.ID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}
