package ports

import (
	"context"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// FeedbackInput carries the user-editable feedback fields.
type FeedbackInput struct {
	ImageID string
	Text    string
	Rating  int
}

type FeedbackService interface {
	Create(ctx context.Context, actor *domain.User, in FeedbackInput) (*domain.Feedback, error)
	ListOwn(ctx context.Context, actor *domain.User) ([]*domain.Feedback, error)
	ListForImage(ctx context.Context, actor *domain.User, imageID string) ([]*domain.Feedback, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Feedback, error)
	Update(ctx context.Context, actor *domain.User, id string, in FeedbackInput) (*domain.Feedback, error)
	Delete(ctx context.Context, actor *domain.User, id string) error

	ListAll(ctx context.Context) ([]*domain.Feedback, error)
	MarkReviewed(ctx context.Context, admin *domain.User, id string) (*domain.Feedback, error)
	Remove(ctx context.Context, id string) error
}
