package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// State is a snapshot of the session. Loading is true only until Init ran.
type State struct {
	Authenticated bool
	Loading       bool
	User          *User
}

// Notice reports a failed operation to the user-facing layer.
type Notice struct {
	Op  string
	Err error
}

type Notifier func(Notice)

type SessionOption func(*Session)

// WithNotifier registers fn to receive every error the session produces.
func WithNotifier(fn Notifier) SessionOption {
	return func(s *Session) { s.notify = fn }
}

// Session is the single owner of the stored token and of the current user.
//
// Transitions (Init, Login, Register, Logout and the reset after a 401) run
// one at a time under op. Readers only take mu, which is never held across a
// network call, so State and Token do not wait for an in-flight login.
type Session struct {
	client *Client
	store  TokenStore
	notify Notifier

	op sync.Mutex

	mu    sync.RWMutex
	state State
	token string
}

func NewSession(c *Client, store TokenStore, opts ...SessionOption) *Session {
	s := &Session{
		client: c,
		store:  store,
		state:  State{Loading: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Init restores a stored token. A token the server rejects is discarded.
func (s *Session) Init(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()

	token, err := s.store.Load()
	if err != nil {
		s.set("", nil)
		return s.fail("init", err)
	}
	if token == "" {
		s.set("", nil)
		return nil
	}

	user, err := s.client.Profile(ctx, token)
	if err != nil {
		_ = s.store.Clear()
		s.set("", nil)
		return s.fail("init", err)
	}
	s.set(token, user)
	return nil
}

// Login leaves the state untouched on failure.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.op.Lock()
	defer s.op.Unlock()

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return s.fail("login", err)
	}
	return s.establish("login", resp)
}

// Register creates the account and logs it in.
func (s *Session) Register(ctx context.Context, name, email, password string) error {
	s.op.Lock()
	defer s.op.Unlock()

	resp, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return s.fail("register", err)
	}
	return s.establish("register", resp)
}

// Logout forgets the token and the user. Calling it again is a no-op.
func (s *Session) Logout() {
	s.op.Lock()
	defer s.op.Unlock()
	s.reset()
}

// Do performs an authorized call. An ErrUnauthorized answer ends the session.
func (s *Session) Do(ctx context.Context, method, path string, body, out any) error {
	token := s.Token()
	if token == "" {
		return s.fail(method+" "+path, &APIError{Status: http.StatusUnauthorized, Message: "not logged in", Kind: ErrUnauthorized})
	}

	err := s.client.Do(ctx, method, path, token, body, out)
	if errors.Is(err, ErrUnauthorized) {
		s.op.Lock()
		// a concurrent login may have replaced the token meanwhile
		if s.Token() == token {
			s.reset()
		}
		s.op.Unlock()
	}
	if err != nil {
		return s.fail(method+" "+path, err)
	}
	return nil
}

func (s *Session) establish(op string, resp *AuthResponse) error {
	if resp.Token == "" || resp.User == nil {
		return s.fail(op, &APIError{Status: http.StatusOK, Message: "incomplete auth response", Kind: ErrServer})
	}
	// the in-memory session still works when persisting fails; only the
	// next Init will not find the token
	if err := s.store.Save(resp.Token); err != nil {
		s.emit(op, err)
	}
	s.set(resp.Token, resp.User)
	return nil
}

func (s *Session) reset() {
	if err := s.store.Clear(); err != nil {
		s.emit("logout", err)
	}
	s.set("", nil)
}

func (s *Session) set(token string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.state = State{Authenticated: user != nil, User: user}
}

func (s *Session) fail(op string, err error) error {
	s.emit(op, err)
	return err
}

func (s *Session) emit(op string, err error) {
	if s.notify != nil {
		s.notify(Notice{Op: op, Err: err})
	}
}
