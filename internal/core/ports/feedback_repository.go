package ports

import (
	"context"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// FeedbackRepository persists user feedback about classifications.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error)
	FindByID(ctx context.Context, id string) (*domain.Feedback, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Feedback, error)
	ListByImage(ctx context.Context, imageID string) ([]*domain.Feedback, error)
	ListAll(ctx context.Context) ([]*domain.Feedback, error)
	Update(ctx context.Context, id, text string, rating int) (*domain.Feedback, error)
	MarkReviewed(ctx context.Context, id, adminID string) (*domain.Feedback, error)
	Delete(ctx context.Context, id string) error
	DeleteByImage(ctx context.Context, imageID string) error
}
