package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeAPI mimics the user endpoints. Tokens are "tok-<email>" and can be revoked.
type fakeAPI struct {
	mu        sync.Mutex
	passwords map[string]string
	revoked   map[string]bool
	calls     map[string]int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	f := &fakeAPI{
		passwords: map[string]string{"alice@example.com": "secret123"},
		revoked:   map[string]bool{},
		calls:     map[string]int{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/login", f.login)
	mux.HandleFunc("POST /api/users/register", f.register)
	mux.HandleFunc("GET /api/users/profile", f.profile)
	mux.HandleFunc("GET /api/images/user", f.images)
	mux.HandleFunc("GET /api/boom", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/api")
	require.NoError(t, err)
	return f, c
}

func (f *fakeAPI) revoke(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked["tok-"+email] = true
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	f.calls["login"]++
	pw, ok := f.passwords[req["email"]]
	f.mu.Unlock()
	if !ok || pw != req["password"] {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Token: "tok-" + req["email"], User: userFor(req["email"])})
}

func (f *fakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	_, exists := f.passwords[req["email"]]
	if !exists {
		f.passwords[req["email"]] = req["password"]
	}
	f.mu.Unlock()
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email already in use"})
		return
	}
	writeJSON(w, http.StatusCreated, AuthResponse{Token: "tok-" + req["email"], User: userFor(req["email"])})
}

func (f *fakeAPI) authorized(r *http.Request) (string, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	f.mu.Lock()
	defer f.mu.Unlock()
	email := strings.TrimPrefix(token, "tok-")
	_, known := f.passwords[email]
	return email, strings.HasPrefix(token, "tok-") && known && !f.revoked[token]
}

func (f *fakeAPI) profile(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls["profile"]++
	f.mu.Unlock()
	email, ok := f.authorized(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userFor(email)})
}

func (f *fakeAPI) images(w http.ResponseWriter, r *http.Request) {
	if _, ok := f.authorized(r); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": 0, "images": []any{}})
}

func userFor(email string) *User {
	return &User{ID: "id-" + email, Name: strings.Split(email, "@")[0], Email: email, Role: "user"}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
