package memory

import (
	"context"
	"sort"
	"time"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// FeedbackRepository implements ports.FeedbackRepository.
type FeedbackRepository struct{ s *Store }

func (r *FeedbackRepository) Create(_ context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := clone(fb)
	c.ID = r.s.nextID()
	r.s.fbs[c.ID] = c
	return clone(c), nil
}

func (r *FeedbackRepository) FindByID(_ context.Context, id string) (*domain.Feedback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	fb, ok := r.s.fbs[id]
	if !ok {
		return nil, domain.ErrFeedbackNotFound
	}
	return clone(fb), nil
}

func (r *FeedbackRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Feedback, error) {
	return r.filter(func(fb *domain.Feedback) bool { return fb.OwnerID == ownerID }), nil
}

func (r *FeedbackRepository) ListByImage(_ context.Context, imageID string) ([]*domain.Feedback, error) {
	return r.filter(func(fb *domain.Feedback) bool { return fb.ImageID == imageID }), nil
}

func (r *FeedbackRepository) ListAll(_ context.Context) ([]*domain.Feedback, error) {
	return r.filter(func(*domain.Feedback) bool { return true }), nil
}

func (r *FeedbackRepository) filter(keep func(*domain.Feedback) bool) []*domain.Feedback {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Feedback{}
	for _, fb := range r.s.fbs {
		if keep(fb) {
			out = append(out, clone(fb))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *FeedbackRepository) Update(_ context.Context, id, text string, rating int) (*domain.Feedback, error) {
	return r.update(id, func(fb *domain.Feedback) {
		fb.Text = text
		fb.Rating = rating
	})
}

func (r *FeedbackRepository) MarkReviewed(_ context.Context, id, adminID string) (*domain.Feedback, error) {
	return r.update(id, func(fb *domain.Feedback) {
		now := time.Now().UTC()
		fb.ReviewedByAdmin = true
		fb.ReviewedBy = adminID
		fb.ReviewedAt = &now
	})
}

func (r *FeedbackRepository) update(id string, fn func(*domain.Feedback)) (*domain.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	fb, ok := r.s.fbs[id]
	if !ok {
		return nil, domain.ErrFeedbackNotFound
	}
	fn(fb)
	fb.UpdatedAt = time.Now().UTC()
	return clone(fb), nil
}

func (r *FeedbackRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.fbs[id]; !ok {
		return domain.ErrFeedbackNotFound
	}
	delete(r.s.fbs, id)
	return nil
}

func (r *FeedbackRepository) DeleteByImage(_ context.Context, imageID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, fb := range r.s.fbs {
		if fb.ImageID == imageID {
			delete(r.s.fbs, id)
		}
	}
	return nil
}
