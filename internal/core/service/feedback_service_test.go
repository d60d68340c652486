package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
	"github.com/batagalla/mushmind-detector/internal/core/ports"
)

func TestFeedbackService_Lifecycle(t *testing.T) {
	f := newImageFixture(t)
	svc := NewFeedbackService(f.store.Feedback(), f.store.Images(), zerolog.Nop())
	ctx := context.Background()
	img := f.upload(t, f.alice)

	fb, err := svc.Create(ctx, f.alice, ports.FeedbackInput{ImageID: img.ID, Text: " looks right ", Rating: 5})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if fb.OwnerID != f.alice.ID || fb.Text != "looks right" {
		t.Fatalf("unexpected feedback %+v", fb)
	}

	updated, err := svc.Update(ctx, f.alice, fb.ID, ports.FeedbackInput{Text: "changed", Rating: 3})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Rating != 3 {
		t.Fatalf("expected rating 3, got %d", updated.Rating)
	}

	own, err := svc.ListOwn(ctx, f.alice)
	if err != nil {
		t.Fatalf("ListOwn returned error: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("expected 1 feedback, got %d", len(own))
	}

	reviewed, err := svc.MarkReviewed(ctx, f.admin, fb.ID)
	if err != nil {
		t.Fatalf("MarkReviewed returned error: %v", err)
	}
	if !reviewed.ReviewedByAdmin || reviewed.ReviewedBy != f.admin.ID || reviewed.ReviewedAt == nil {
		t.Fatalf("review not recorded: %+v", reviewed)
	}

	if err := svc.Delete(ctx, f.alice, fb.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(ctx, f.alice, fb.ID); !errors.Is(err, domain.ErrFeedbackNotFound) {
		t.Fatalf("expected ErrFeedbackNotFound, got %v", err)
	}
}

func TestFeedbackService_Ownership(t *testing.T) {
	f := newImageFixture(t)
	svc := NewFeedbackService(f.store.Feedback(), f.store.Images(), zerolog.Nop())
	ctx := context.Background()
	img := f.upload(t, f.alice)

	if _, err := svc.Create(ctx, f.bob, ports.FeedbackInput{ImageID: img.ID, Text: "nope", Rating: 1}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on foreign image, got %v", err)
	}
	if _, err := svc.Create(ctx, f.bob, ports.FeedbackInput{ImageID: "missing", Text: "nope", Rating: 1}); !errors.Is(err, domain.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}

	fb, err := svc.Create(ctx, f.alice, ports.FeedbackInput{ImageID: img.ID, Text: "mine", Rating: 4})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Get(ctx, f.bob, fb.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Get: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(ctx, f.bob, fb.ID, ports.FeedbackInput{Text: "x", Rating: 1}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Update: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, f.bob, fb.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Delete: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.ListForImage(ctx, f.bob, img.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("ListForImage: expected ErrForbidden, got %v", err)
	}

	got, err := svc.Get(ctx, f.admin, fb.ID)
	if err != nil {
		t.Fatalf("admin Get returned error: %v", err)
	}
	if got.ID != fb.ID {
		t.Fatalf("expected feedback %q, got %q", fb.ID, got.ID)
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 feedback, got %d", len(all))
	}
	if err := svc.Remove(ctx, fb.ID); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if err := svc.Remove(ctx, fb.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second Remove, got %v", err)
	}
}

func TestFeedbackService_Validation(t *testing.T) {
	f := newImageFixture(t)
	svc := NewFeedbackService(f.store.Feedback(), f.store.Images(), zerolog.Nop())
	ctx := context.Background()
	img := f.upload(t, f.alice)

	for _, in := range []ports.FeedbackInput{
		{ImageID: img.ID, Text: "", Rating: 3},
		{ImageID: img.ID, Text: "ok", Rating: 0},
		{ImageID: img.ID, Text: "ok", Rating: 6},
	} {
		if _, err := svc.Create(ctx, f.alice, in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("Create(%+v): expected ErrValidation, got %v", in, err)
		}
	}
}
