package ports

import (
	"context"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

type ImageRepository interface {
	Create(ctx context.Context, img *domain.Image) (*domain.Image, error)
	FindByID(ctx context.Context, id string) (*domain.Image, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Image, error)
	Delete(ctx context.Context, id string) error
}

type ClassificationRepository interface {
	Create(ctx context.Context, res *domain.ClassificationResult) (*domain.ClassificationResult, error)
	// LatestForImage returns domain.ErrClassificationNotFound when the image was never classified.
	LatestForImage(ctx context.Context, imageID string) (*domain.ClassificationResult, error)
	DeleteByImage(ctx context.Context, imageID string) error
}

// HistoryRepository records which classifications a user requested.
type HistoryRepository interface {
	Record(ctx context.Context, entry *domain.SearchHistory) (*domain.SearchHistory, error)
	// ListByUser returns the newest entries first, joined with image and result.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.SearchEntry, error)
	DeleteByImage(ctx context.Context, imageID string) error
}

// ObjectStore holds the raw image bytes.
type ObjectStore interface {
	// Put uploads body under key and returns the public URL of the object.
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Classifier produces a verdict for an image.
type Classifier interface {
	Classify(ctx context.Context, img *domain.Image) (domain.Verdict, error)
}

// PurgeQueue schedules object-storage cleanup outside the request path.
type PurgeQueue interface {
	Enqueue(key string)
}
