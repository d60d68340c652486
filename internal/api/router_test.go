package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batagalla/mushmind-detector/internal/api/metrics"
	"github.com/batagalla/mushmind-detector/internal/core/service"
	"github.com/batagalla/mushmind-detector/internal/infrastructure/db/memory"
)

const testSecret = "router-test-secret-router-test-secret"

type noopPurger struct{}

func (noopPurger) Enqueue(string) {}

type stubLimiter struct {
	blocked bool
	fails   int
	resets  int
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) { return !l.blocked, nil }
func (l *stubLimiter) Fail(context.Context, string) error          { l.fails++; return nil }
func (l *stubLimiter) Reset(context.Context, string) error         { l.resets++; return nil }

type testServer struct {
	e       *echo.Echo
	store   *memory.Store
	admin   *service.AdminService
	limiter *stubLimiter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	store := memory.New()
	tokens := service.NewTokenService(testSecret, time.Hour)
	auth := service.NewAuthService(store.Users(), tokens, log)
	admin := service.NewAdminService(store.Users(), store.Admins(), store.Settings(), store.Stats(), store, log)
	images := service.NewImageService(service.ImageRepos{
		Images:          store.Images(),
		Classifications: store.Classifications(),
		History:         store.History(),
		Feedback:        store.Feedback(),
	}, memory.NewObjectStore("http://objects.test"), service.NewRandomClassifier(), noopPurger{}, store, 1<<20, log)
	feedback := service.NewFeedbackService(store.Feedback(), store.Images(), log)

	limiter := &stubLimiter{}
	e := NewRouter(Dependencies{
		Tokens:         tokens,
		Users:          store.Users(),
		Admins:         store.Admins(),
		Auth:           auth,
		Images:         images,
		Feedback:       feedback,
		Admin:          admin,
		LoginLimiter:   limiter,
		Logger:         log,
		MaxUploadBytes: 1 << 20,
	})
	return &testServer{e: e, store: store, admin: admin, limiter: limiter}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func (s *testServer) register(t *testing.T, name, email string) authBody {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out authBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *testServer) upload(t *testing.T, token string) string {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "cap.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		Image struct {
			ID string `json:"id"`
		} `json:"image"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Image.ID
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRouter_RegisterThenProfile(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "Alice", "alice@example.com")
	assert.NotEmpty(t, alice.Token)
	assert.Equal(t, "user", alice.User.Role)

	rec := s.do(t, http.MethodGet, "/api/users/profile", alice.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Alice", "alice@example.com")

	rec := s.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Alice again", "email": "ALICE@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Login(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Alice", "alice@example.com")

	rec := s.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1, s.limiter.fails)

	rec = s.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, s.limiter.resets)
}

func TestRouter_LoginThrottled(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Alice", "alice@example.com")
	s.limiter.blocked = true

	rec := s.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/users/profile"},
		{http.MethodPost, "/api/feedback"},
		{http.MethodGet, "/api/images/user"},
		{http.MethodGet, "/api/images/search-history"},
		{http.MethodGet, "/api/admin/stats"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path, "", map[string]any{"imageId": "1", "text": "x", "rating": 3})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	rec := s.do(t, http.MethodGet, "/api/users/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", errorMessage(t, rec))
}

func TestRouter_AdminRoutesNeverOpenToUsers(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "Alice", "alice@example.com")

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPut, "/api/admin/users/" + alice.User.ID + "/role"},
		{http.MethodGet, "/api/admin/feedback"},
		{http.MethodGet, "/api/admin/settings/system"},
		{http.MethodPut, "/api/admin/settings/model"},
	}
	for _, p := range paths {
		rec := s.do(t, p.method, p.path, alice.Token, map[string]string{"role": "admin"})
		assert.Equal(t, http.StatusForbidden, rec.Code, p.path)
	}

	// the self-promotion attempt above must not have stuck
	u, err := s.store.Users().FindByID(context.Background(), alice.User.ID)
	require.NoError(t, err)
	assert.False(t, u.IsAdmin())
}

func TestRouter_PromotionTakesEffectImmediately(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	_, err := s.admin.EnsureDefaultAdmin(ctx, "Root", "root@example.com", "rootpass1")
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "root@example.com", "password": "rootpass1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var root authBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &root))

	bob := s.register(t, "Bob", "bob@example.com")
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/admin/stats", bob.Token, nil).Code)

	rec = s.do(t, http.MethodPut, "/api/admin/users/"+bob.User.ID+"/role", root.Token, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// same token, new role: the identity is reloaded per request
	rec = s.do(t, http.MethodGet, "/api/admin/stats", bob.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalUsers":2`)

	// default profile lacks systemSettings
	rec = s.do(t, http.MethodPut, "/api/admin/settings/model", bob.Token, map[string]any{"confidenceThreshold": 0.5})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/admin/users/"+bob.User.ID+"/role", root.Token, map[string]string{"role": "user"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/admin/stats", bob.Token, nil).Code)
}

func TestRouter_InvalidRoleRejected(t *testing.T) {
	s := newTestServer(t)
	_, err := s.admin.EnsureDefaultAdmin(context.Background(), "Root", "root@example.com", "rootpass1")
	require.NoError(t, err)
	rec := s.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "root@example.com", "password": "rootpass1",
	})
	var root authBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &root))
	bob := s.register(t, "Bob", "bob@example.com")

	rec = s.do(t, http.MethodPut, "/api/admin/users/"+bob.User.ID+"/role", root.Token, map[string]string{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/admin/users/999/role", root.Token, map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CrossOwnerAccess(t *testing.T) {
	s := newTestServer(t)
	_, err := s.admin.EnsureDefaultAdmin(context.Background(), "Root", "root@example.com", "rootpass1")
	require.NoError(t, err)
	rec := s.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "root@example.com", "password": "rootpass1",
	})
	var root authBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &root))

	alice := s.register(t, "Alice", "alice@example.com")
	bob := s.register(t, "Bob", "bob@example.com")
	imageID := s.upload(t, alice.Token)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/images/"+imageID, alice.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/images/"+imageID, bob.Token, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/images/"+imageID, root.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/images/does-not-exist", bob.Token, nil).Code)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/images/"+imageID+"/classify", bob.Token, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/images/"+imageID+"/classify", alice.Token, nil).Code)

	rec = s.do(t, http.MethodGet, "/api/images/search-history", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	rec = s.do(t, http.MethodGet, "/api/images/recent", bob.Token, nil)
	assert.Contains(t, rec.Body.String(), `"count":0`)

	// feedback on someone else's image is forbidden
	fb := map[string]any{"imageId": imageID, "text": "looks right", "rating": 4}
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/feedback", bob.Token, fb).Code)
	rec = s.do(t, http.MethodPost, "/api/feedback", alice.Token, fb)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Feedback struct {
			ID string `json:"id"`
		} `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	upd := map[string]any{"text": "changed", "rating": 1}
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPut, "/api/feedback/"+created.Feedback.ID, bob.Token, upd).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/feedback/"+created.Feedback.ID, alice.Token, upd).Code)

	rec = s.do(t, http.MethodPut, "/api/admin/feedback/"+created.Feedback.ID+"/review", root.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reviewedByAdmin":true`)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/api/images/"+imageID, bob.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/images/"+imageID, alice.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/feedback/"+created.Feedback.ID, alice.Token, nil).Code)
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/metrics", "", nil).Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	e := NewRouter(Dependencies{Registry: reg, Logger: zerolog.Nop()})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mushmind_requests_total")
}
