package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
	"github.com/batagalla/mushmind-detector/internal/core/ports"
)

const historyLimit = 50

// ImageRepos groups the persistence the image service touches.
type ImageRepos struct {
	Images          ports.ImageRepository
	Classifications ports.ClassificationRepository
	History         ports.HistoryRepository
	Feedback        ports.FeedbackRepository
}

// ImageService handles upload, classification, history and deletion.
type ImageService struct {
	repos      ImageRepos
	store      ports.ObjectStore
	classifier ports.Classifier
	purger     ports.PurgeQueue
	tx         ports.Transactor
	maxBytes   int64
	log        zerolog.Logger
}

func NewImageService(
	repos ImageRepos,
	store ports.ObjectStore,
	classifier ports.Classifier,
	purger ports.PurgeQueue,
	tx ports.Transactor,
	maxBytes int64,
	log zerolog.Logger,
) *ImageService {
	return &ImageService{
		repos:      repos,
		store:      store,
		classifier: classifier,
		purger:     purger,
		tx:         tx,
		maxBytes:   maxBytes,
		log:        log,
	}
}

func (s *ImageService) Upload(ctx context.Context, actor *domain.User, in ports.UploadInput) (*domain.Image, error) {
	if len(in.Data) == 0 {
		return nil, domain.Invalid("no image uploaded")
	}
	if s.maxBytes > 0 && int64(len(in.Data)) > s.maxBytes {
		return nil, domain.Invalid(fmt.Sprintf("image exceeds %d bytes", s.maxBytes))
	}
	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(in.Data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domain.Invalid("only image files are allowed")
	}

	key := objectKey(actor.ID, in.Filename)
	url, err := s.store.Put(ctx, key, in.Data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	img, err := s.repos.Images.Create(ctx, &domain.Image{
		OwnerID:     actor.ID,
		ImageURL:    url,
		ObjectKey:   key,
		ContentType: contentType,
		Size:        int64(len(in.Data)),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.purger.Enqueue(key)
		return nil, fmt.Errorf("upload image: %w", err)
	}
	s.log.Info().Str("image_id", img.ID).Str("user_id", actor.ID).Int64("size", img.Size).Msg("image uploaded")
	return img, nil
}

// Get returns the image and its latest classification, which may be nil.
func (s *ImageService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Image, *domain.ClassificationResult, error) {
	img, err := s.authorizedImage(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.repos.Classifications.LatestForImage(ctx, img.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return img, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return img, res, nil
}

// Classify runs the classifier and records the result in the actor's history.
func (s *ImageService) Classify(ctx context.Context, actor *domain.User, id string) (*domain.ClassificationResult, error) {
	img, err := s.authorizedImage(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	verdict, err := s.classifier.Classify(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.repos.Classifications.Create(ctx, &domain.ClassificationResult{
		ImageID:            img.ID,
		ClassificationType: verdict.ClassificationType,
		IsSafe:             verdict.IsSafe,
		Confidence:         verdict.Confidence,
		Description:        verdict.Description,
		CreatedAt:          now,
	})
	if err != nil {
		return nil, fmt.Errorf("classify: save result: %w", err)
	}

	if _, err := s.repos.History.Record(ctx, &domain.SearchHistory{
		UserID:                 actor.ID,
		ImageID:                img.ID,
		ClassificationResultID: res.ID,
		CreatedAt:              now,
	}); err != nil {
		return nil, fmt.Errorf("classify: record history: %w", err)
	}
	return res, nil
}

func (s *ImageService) ListOwn(ctx context.Context, actor *domain.User) ([]*domain.Image, error) {
	return s.repos.Images.ListByOwner(ctx, actor.ID)
}

func (s *ImageService) History(ctx context.Context, actor *domain.User) ([]*domain.SearchEntry, error) {
	return s.repos.History.ListByUser(ctx, actor.ID, historyLimit)
}

// Delete removes the image with everything that references it, then hands
// the stored object to the purge queue.
func (s *ImageService) Delete(ctx context.Context, actor *domain.User, id string) error {
	img, err := s.authorizedImage(ctx, actor, id)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.Feedback.DeleteByImage(ctx, img.ID); err != nil {
			return err
		}
		if err := s.repos.History.DeleteByImage(ctx, img.ID); err != nil {
			return err
		}
		if err := s.repos.Classifications.DeleteByImage(ctx, img.ID); err != nil {
			return err
		}
		return s.repos.Images.Delete(ctx, img.ID)
	})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	s.purger.Enqueue(img.ObjectKey)
	return nil
}

// authorizedImage loads the image first so a missing one is a 404 for
// everybody, then applies the ownership rule.
func (s *ImageService) authorizedImage(ctx context.Context, actor *domain.User, id string) (*domain.Image, error) {
	img, err := s.repos.Images.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, img.OwnerID); err != nil {
		return nil, err
	}
	return img, nil
}

func objectKey(ownerID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 8 {
		ext = ""
	}
	return fmt.Sprintf("images/%s/%s%s", ownerID, uuid.NewString(), ext)
}
