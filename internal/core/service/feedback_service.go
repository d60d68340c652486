package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
	"github.com/batagalla/mushmind-detector/internal/core/ports"
)

const maxFeedbackLength = 2000

// FeedbackService manages user feedback and its admin review.
type FeedbackService struct {
	feedback ports.FeedbackRepository
	images   ports.ImageRepository
	log      zerolog.Logger
}

func NewFeedbackService(feedback ports.FeedbackRepository, images ports.ImageRepository, log zerolog.Logger) *FeedbackService {
	return &FeedbackService{feedback: feedback, images: images, log: log}
}

// Create stamps the owner from the actor; feedback is only accepted on an
// image the actor may access.
func (s *FeedbackService) Create(ctx context.Context, actor *domain.User, in ports.FeedbackInput) (*domain.Feedback, error) {
	text, err := validateFeedback(in)
	if err != nil {
		return nil, err
	}
	img, err := s.images.FindByID(ctx, in.ImageID)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, img.OwnerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fb, err := s.feedback.Create(ctx, &domain.Feedback{
		OwnerID:   actor.ID,
		ImageID:   img.ID,
		Text:      text,
		Rating:    in.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return fb, nil
}

func (s *FeedbackService) ListOwn(ctx context.Context, actor *domain.User) ([]*domain.Feedback, error) {
	return s.feedback.ListByOwner(ctx, actor.ID)
}

func (s *FeedbackService) ListForImage(ctx context.Context, actor *domain.User, imageID string) ([]*domain.Feedback, error) {
	img, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, img.OwnerID); err != nil {
		return nil, err
	}
	return s.feedback.ListByImage(ctx, img.ID)
}

func (s *FeedbackService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Feedback, error) {
	return s.authorized(ctx, actor, id)
}

func (s *FeedbackService) Update(ctx context.Context, actor *domain.User, id string, in ports.FeedbackInput) (*domain.Feedback, error) {
	fb, err := s.authorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	text, err := validateFeedback(in)
	if err != nil {
		return nil, err
	}
	return s.feedback.Update(ctx, fb.ID, text, in.Rating)
}

func (s *FeedbackService) Delete(ctx context.Context, actor *domain.User, id string) error {
	fb, err := s.authorized(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.feedback.Delete(ctx, fb.ID)
}

func (s *FeedbackService) ListAll(ctx context.Context) ([]*domain.Feedback, error) {
	return s.feedback.ListAll(ctx)
}

func (s *FeedbackService) MarkReviewed(ctx context.Context, admin *domain.User, id string) (*domain.Feedback, error) {
	fb, err := s.feedback.MarkReviewed(ctx, id, admin.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("feedback_id", id).Str("admin_id", admin.ID).Msg("feedback reviewed")
	return fb, nil
}

func (s *FeedbackService) Remove(ctx context.Context, id string) error {
	return s.feedback.Delete(ctx, id)
}

func (s *FeedbackService) authorized(ctx context.Context, actor *domain.User, id string) (*domain.Feedback, error) {
	fb, err := s.feedback.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, fb.OwnerID); err != nil {
		return nil, err
	}
	return fb, nil
}

func validateFeedback(in ports.FeedbackInput) (string, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return "", domain.Invalid("feedback text is required")
	}
	if len(text) > maxFeedbackLength {
		return "", domain.Invalid(fmt.Sprintf("feedback text exceeds %d characters", maxFeedbackLength))
	}
	if !domain.ValidRating(in.Rating) {
		return "", domain.Invalid(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	return text, nil
}
