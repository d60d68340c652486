package memory

import (
	"context"
	"sort"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// ImageRepository implements ports.ImageRepository.
type ImageRepository struct{ s *Store }

func (r *ImageRepository) Create(_ context.Context, img *domain.Image) (*domain.Image, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := clone(img)
	c.ID = r.s.nextID()
	r.s.images[c.ID] = c
	return clone(c), nil
}

func (r *ImageRepository) FindByID(_ context.Context, id string) (*domain.Image, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	img, ok := r.s.images[id]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	return clone(img), nil
}

func (r *ImageRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Image, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Image{}
	for _, img := range r.s.images {
		if img.OwnerID == ownerID {
			out = append(out, clone(img))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ImageRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.images[id]; !ok {
		return domain.ErrImageNotFound
	}
	delete(r.s.images, id)
	return nil
}

// ClassificationRepository implements ports.ClassificationRepository.
type ClassificationRepository struct{ s *Store }

func (r *ClassificationRepository) Create(_ context.Context, res *domain.ClassificationResult) (*domain.ClassificationResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := clone(res)
	c.ID = r.s.nextID()
	r.s.result[c.ID] = c
	return clone(c), nil
}

func (r *ClassificationRepository) LatestForImage(_ context.Context, imageID string) (*domain.ClassificationResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *domain.ClassificationResult
	for _, res := range r.s.result {
		if res.ImageID != imageID {
			continue
		}
		if latest == nil || !res.CreatedAt.Before(latest.CreatedAt) {
			latest = res
		}
	}
	if latest == nil {
		return nil, domain.ErrClassificationNotFound
	}
	return clone(latest), nil
}

func (r *ClassificationRepository) DeleteByImage(_ context.Context, imageID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, res := range r.s.result {
		if res.ImageID == imageID {
			delete(r.s.result, id)
		}
	}
	return nil
}

// HistoryRepository implements ports.HistoryRepository.
type HistoryRepository struct{ s *Store }

func (r *HistoryRepository) Record(_ context.Context, entry *domain.SearchHistory) (*domain.SearchHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := clone(entry)
	c.ID = r.s.nextID()
	r.s.hist[c.ID] = c
	return clone(c), nil
}

func (r *HistoryRepository) ListByUser(_ context.Context, userID string, limit int) ([]*domain.SearchEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.SearchEntry{}
	for _, h := range r.s.hist {
		if h.UserID != userID {
			continue
		}
		e := &domain.SearchEntry{SearchHistory: *h, Result: clone(r.s.result[h.ClassificationResultID])}
		if img, ok := r.s.images[h.ImageID]; ok {
			e.ImageURL = img.ImageURL
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *HistoryRepository) DeleteByImage(_ context.Context, imageID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, h := range r.s.hist {
		if h.ImageID == imageID {
			delete(r.s.hist, id)
		}
	}
	return nil
}
