package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/batagalla/mushmind-detector/internal/api/middleware"
	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (string, *domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(_ context.Context, userID string) (*domain.User, error) {
	return &domain.User{ID: userID, Name: "Alice", Role: domain.RoleUser}, nil
}

func (s *stubAuthService) UpdateProfile(_ context.Context, userID, name string) (*domain.User, error) {
	return &domain.User{ID: userID, Name: name, Role: domain.RoleUser}, nil
}

type stubLimiter struct {
	allow    bool
	allowErr error
	failed   []string
	reset    []string
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) { return l.allow, l.allowErr }

func (l *stubLimiter) Fail(_ context.Context, key string) error {
	l.failed = append(l.failed, key)
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, key string) error {
	l.reset = append(l.reset, key)
	return nil
}

func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.RemoteAddr = "10.0.0.7:41234"
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okLogin(context.Context, string, string) (string, *domain.User, error) {
	return "tok", &domain.User{ID: "u1", Email: "alice@example.com", Role: domain.RoleUser}, nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, name, email, password string) (string, *domain.User, error) {
			if name != "Alice" || email != "alice@example.com" || password != "secret123" {
				t.Fatalf("unexpected args: %s %s %s", name, email, password)
			}
			return "tok", &domain.User{ID: "u1", Name: name, Email: email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub, nil, zerolog.Nop())

	c, rec := newJSONContext(e, http.MethodPost, "/api/users/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret123"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || resp["token"] != "tok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if user["role"] != "user" || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatal("password hash must never be serialized")
	}
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewAuthHandler(&stubAuthService{}, nil, zerolog.Nop())

	c, _ := newJSONContext(e, http.MethodPost, "/api/users/register", `{"name":"Bob"}`)
	err := h.Register(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Login_Throttled(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{loginFn: func(context.Context, string, string) (string, *domain.User, error) {
		t.Fatal("service must not be called when throttled")
		return "", nil, nil
	}}
	h := NewAuthHandler(stub, &stubLimiter{allow: false}, zerolog.Nop())

	c, _ := newJSONContext(e, http.MethodPost, "/api/users/login", `{"email":"alice@example.com","password":"x"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthHandler_Login_RecordsFailureAndReset(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	limiter := &stubLimiter{allow: true}

	bad := NewAuthHandler(&stubAuthService{loginFn: func(context.Context, string, string) (string, *domain.User, error) {
		return "", nil, domain.ErrInvalidCredentials
	}}, limiter, zerolog.Nop())
	c, _ := newJSONContext(e, http.MethodPost, "/api/users/login", `{"email":" Alice@Example.com ","password":"x"}`)
	if err := bad.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(limiter.failed) != 1 || limiter.failed[0] != "alice@example.com|10.0.0.7" {
		t.Fatalf("unexpected failure keys: %v", limiter.failed)
	}

	good := NewAuthHandler(&stubAuthService{loginFn: okLogin}, limiter, zerolog.Nop())
	c, rec := newJSONContext(e, http.MethodPost, "/api/users/login", `{"email":"alice@example.com","password":"secret123"}`)
	if err := good.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || len(limiter.reset) != 1 {
		t.Fatalf("expected 200 and one reset, got %d %v", rec.Code, limiter.reset)
	}
}

func TestAuthHandler_Login_LimiterDownFailsOpen(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	limiter := &stubLimiter{allowErr: errors.New("redis: connection refused")}
	h := NewAuthHandler(&stubAuthService{loginFn: okLogin}, limiter, zerolog.Nop())

	c, rec := newJSONContext(e, http.MethodPost, "/api/users/login", `{"email":"alice@example.com","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Profile_RequiresIdentity(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(&stubAuthService{}, nil, zerolog.Nop())

	c, _ := newJSONContext(e, http.MethodGet, "/api/users/profile", "")
	err := h.Profile(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}

	c, rec := newJSONContext(e, http.MethodGet, "/api/users/profile", "")
	middleware.SetIdentity(c, &domain.User{ID: "u1", Role: domain.RoleUser})
	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"id":"u1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
