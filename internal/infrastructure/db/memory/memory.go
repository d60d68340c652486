// Package memory is an in-process implementation of every repository port.
// It backs the service, router and client tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// Store holds all collections behind one lock.
type Store struct {
	mu     sync.RWMutex
	seq    int
	users  map[string]*domain.User
	admins map[string]*domain.AdminProfile // keyed by user ID
	images map[string]*domain.Image
	result map[string]*domain.ClassificationResult
	hist   map[string]*domain.SearchHistory
	fbs    map[string]*domain.Feedback
	system *domain.SystemSettings
	model  *domain.ModelSettings
}

func New() *Store {
	return &Store{
		users:  make(map[string]*domain.User),
		admins: make(map[string]*domain.AdminProfile),
		images: make(map[string]*domain.Image),
		result: make(map[string]*domain.ClassificationResult),
		hist:   make(map[string]*domain.SearchHistory),
		fbs:    make(map[string]*domain.Feedback),
	}
}

func (s *Store) nextID() string {
	s.seq++
	return strconv.Itoa(s.seq)
}

func (s *Store) Users() *UserRepository                     { return &UserRepository{s} }
func (s *Store) Admins() *AdminRepository                   { return &AdminRepository{s} }
func (s *Store) Images() *ImageRepository                   { return &ImageRepository{s} }
func (s *Store) Classifications() *ClassificationRepository { return &ClassificationRepository{s} }
func (s *Store) History() *HistoryRepository                { return &HistoryRepository{s} }
func (s *Store) Feedback() *FeedbackRepository              { return &FeedbackRepository{s} }
func (s *Store) Settings() *SettingsRepository              { return &SettingsRepository{s} }
func (s *Store) Stats() *StatsRepository                    { return &StatsRepository{s} }

// WithinTransaction runs fn directly; the memory store has no rollback.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// UserRepository implements ports.UserRepository.
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email := domain.NormalizeEmail(user.Email)
	for _, u := range r.s.users {
		if u.Email == email {
			return nil, domain.ErrEmailInUse
		}
	}
	u := clone(user)
	u.ID = r.s.nextID()
	u.Email = email
	r.s.users[u.ID] = u
	return clone(u), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = domain.NormalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.Role = role })
}

func (r *UserRepository) UpdateName(_ context.Context, id, name string) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.Name = name })
}

func (r *UserRepository) update(id string, fn func(*domain.User)) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return clone(u), nil
}

// AdminRepository implements ports.AdminRepository.
type AdminRepository struct{ s *Store }

func (r *AdminRepository) FindByUserID(_ context.Context, userID string) (*domain.AdminProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.admins[userID]
	if !ok {
		return nil, domain.ErrAdminProfileNotFound
	}
	return clone(p), nil
}

func (r *AdminRepository) Ensure(_ context.Context, userID string, perms domain.Permissions) (*domain.AdminProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.admins[userID]; ok {
		return clone(p), nil
	}
	p := &domain.AdminProfile{ID: r.s.nextID(), UserID: userID, Permissions: perms, CreatedAt: time.Now().UTC()}
	r.s.admins[userID] = p
	return clone(p), nil
}

func (r *AdminRepository) UpdatePermissions(_ context.Context, userID string, perms domain.Permissions) (*domain.AdminProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.admins[userID]
	if !ok {
		return nil, domain.ErrAdminProfileNotFound
	}
	p.Permissions = perms
	return clone(p), nil
}
