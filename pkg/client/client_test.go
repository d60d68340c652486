package client

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:5000/api")
	assert.Error(t, err)

	c, err := New("http://localhost:5000/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api", c.baseURL)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		msg    string
		want   error
	}{
		{http.StatusUnauthorized, "invalid email or password", ErrInvalidCredentials},
		{http.StatusUnauthorized, "token expired", ErrUnauthorized},
		{http.StatusBadRequest, "email already in use", ErrEmailInUse},
		{http.StatusBadRequest, "rating must be at most 5", ErrValidation},
		{http.StatusForbidden, "access forbidden", ErrForbidden},
		{http.StatusNotFound, "image not found", ErrNotFound},
		{http.StatusTooManyRequests, "", ErrTooManyAttempts},
		{http.StatusInternalServerError, "internal server error", ErrServer},
		{http.StatusBadGateway, "", ErrServer},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, classify(tc.status, tc.msg), "%d %q", tc.status, tc.msg)
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{Status: http.StatusForbidden, Message: "access forbidden", Kind: ErrForbidden}
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "403: access forbidden", err.Error())
	assert.Equal(t, "502 Bad Gateway", (&APIError{Status: http.StatusBadGateway}).Error())
}

func TestClient_LoginAndProfile(t *testing.T) {
	_, c := newFakeAPI(t)

	resp, err := c.Login(t.Context(), "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok-alice@example.com", resp.Token)
	assert.False(t, resp.User.IsAdmin())

	u, err := c.Profile(t.Context(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = c.Profile(t.Context(), "bogus")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
