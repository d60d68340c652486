package memory

import (
	"context"
	"sync"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// SettingsRepository implements ports.SettingsRepository.
type SettingsRepository struct{ s *Store }

func (r *SettingsRepository) GetSystem(_ context.Context) (*domain.SystemSettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.system == nil {
		d := domain.DefaultSystemSettings()
		return &d, nil
	}
	return clone(r.s.system), nil
}

func (r *SettingsRepository) SaveSystem(_ context.Context, in domain.SystemSettings) (*domain.SystemSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.system = &in
	return clone(&in), nil
}

func (r *SettingsRepository) GetModel(_ context.Context) (*domain.ModelSettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.model == nil {
		d := domain.DefaultModelSettings()
		return &d, nil
	}
	return clone(r.s.model), nil
}

func (r *SettingsRepository) SaveModel(_ context.Context, in domain.ModelSettings) (*domain.ModelSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.model = &in
	return clone(&in), nil
}

// StatsRepository implements ports.StatsRepository.
type StatsRepository struct{ s *Store }

func (r *StatsRepository) CountUsers(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

func (r *StatsRepository) CountImages(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.images)), nil
}

func (r *StatsRepository) CountSearches(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.hist)), nil
}

func (r *StatsRepository) CountPendingFeedback(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, fb := range r.s.fbs {
		if !fb.ReviewedByAdmin {
			n++
		}
	}
	return n, nil
}

// ObjectStore is an in-memory ports.ObjectStore.
type ObjectStore struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

func NewObjectStore(baseURL string) *ObjectStore {
	return &ObjectStore{BaseURL: baseURL, objects: make(map[string][]byte)}
}

func (o *ObjectStore) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.objects[key] = append([]byte(nil), body...)
	return o.BaseURL + "/" + key, nil
}

func (o *ObjectStore) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.objects, key)
	return nil
}

// Has reports whether key is currently stored.
func (o *ObjectStore) Has(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.objects[key]
	return ok
}
