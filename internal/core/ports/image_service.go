package ports

import (
	"context"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// UploadInput is the DTO passed from the transport layer to ImageService.
type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ImageService interface {
	Upload(ctx context.Context, actor *domain.User, in UploadInput) (*domain.Image, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Image, *domain.ClassificationResult, error)
	Classify(ctx context.Context, actor *domain.User, id string) (*domain.ClassificationResult, error)
	ListOwn(ctx context.Context, actor *domain.User) ([]*domain.Image, error)
	History(ctx context.Context, actor *domain.User) ([]*domain.SearchEntry, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}
