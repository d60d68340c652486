package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	log := zerolog.Nop()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"http error passthrough", echo.NewHTTPError(http.StatusForbidden, "admin access required"), http.StatusForbidden, "admin access required"},
		{"expired token", domain.ErrTokenExpired, http.StatusUnauthorized, "token expired"},
		{"bad signature", domain.ErrTokenBadSignature, http.StatusUnauthorized, "invalid token"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{"forbidden", fmt.Errorf("feedback: %w", domain.ErrForbidden), http.StatusForbidden, "access forbidden"},
		{"not found", domain.ErrImageNotFound, http.StatusNotFound, domain.ErrImageNotFound.Error()},
		{"email in use", domain.ErrEmailInUse, http.StatusBadRequest, "email already in use"},
		{"validation", domain.Invalid("rating must be between 1 and 5"), http.StatusBadRequest, domain.Invalid("rating must be between 1 and 5").Error()},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many login attempts, try again later"},
		{"unexpected", errors.New("mongo exploded"), http.StatusInternalServerError, "mongo exploded"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := resolveError(tc.err, log, c, false)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantMsg, msg)
		})
	}
}

func TestResolveError_HidesInternalsInProduction(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	code, msg := resolveError(errors.New("dial tcp 10.0.0.4:27017: refused"), zerolog.Nop(), c, true)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", msg)
}
