package client_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batagalla/mushmind-detector/internal/api"
	"github.com/batagalla/mushmind-detector/internal/core/service"
	"github.com/batagalla/mushmind-detector/internal/infrastructure/db/memory"
	"github.com/batagalla/mushmind-detector/pkg/client"
)

type discardPurger struct{}

func (discardPurger) Enqueue(string) {}

func newServer(t *testing.T) (*client.Client, *service.AdminService) {
	t.Helper()
	log := zerolog.Nop()
	store := memory.New()
	tokens := service.NewTokenService("e2e-secret-e2e-secret-e2e-secret-e2e", time.Hour)
	admin := service.NewAdminService(store.Users(), store.Admins(), store.Settings(), store.Stats(), store, log)
	images := service.NewImageService(service.ImageRepos{
		Images:          store.Images(),
		Classifications: store.Classifications(),
		History:         store.History(),
		Feedback:        store.Feedback(),
	}, memory.NewObjectStore("http://objects.test"), service.NewRandomClassifier(), discardPurger{}, store, 1<<20, log)

	e := api.NewRouter(api.Dependencies{
		Tokens:   tokens,
		Users:    store.Users(),
		Admins:   store.Admins(),
		Auth:     service.NewAuthService(store.Users(), tokens, log),
		Images:   images,
		Feedback: service.NewFeedbackService(store.Feedback(), store.Images(), log),
		Admin:    admin,
		Logger:   log,
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL + "/api")
	require.NoError(t, err)
	return c, admin
}

func TestSession_AgainstRouter(t *testing.T) {
	c, _ := newServer(t)
	ctx := t.Context()

	s := client.NewSession(c, client.NewFileStore(t.TempDir()))
	require.NoError(t, s.Init(ctx))
	assert.False(t, s.State().Authenticated)

	require.NoError(t, s.Register(ctx, "Alice", "alice@example.com", "secret123"))
	assert.Equal(t, "user", s.State().User.Role)

	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, s.Do(ctx, http.MethodGet, "/images/user", nil, &list))
	assert.Zero(t, list.Count)

	err := s.Do(ctx, http.MethodGet, "/admin/stats", nil, nil)
	assert.ErrorIs(t, err, client.ErrForbidden)
	assert.True(t, s.State().Authenticated, "403 must not end the session")

	s.Logout()
	assert.ErrorIs(t, s.Login(ctx, "alice@example.com", "wrong"), client.ErrInvalidCredentials)

	other := client.NewSession(c, &client.MemoryStore{})
	assert.ErrorIs(t, other.Register(ctx, "Alice", "alice@example.com", "secret123"), client.ErrEmailInUse)
}

func TestSession_PromotionVisibleOnNextProfileFetch(t *testing.T) {
	c, admin := newServer(t)
	ctx := t.Context()

	store := &client.MemoryStore{}
	s := client.NewSession(c, store)
	require.NoError(t, s.Register(ctx, "Bob", "bob@example.com", "secret123"))
	bobID := s.State().User.ID

	_, err := admin.UpdateRole(ctx, bobID, "admin")
	require.NoError(t, err)

	// a fresh session restoring the same token sees the new role
	restored := client.NewSession(c, store)
	require.NoError(t, restored.Init(ctx))
	assert.True(t, restored.State().User.IsAdmin())
	require.NoError(t, restored.Do(ctx, http.MethodGet, "/admin/stats", nil, nil))
}
