package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

type FeedbackRepository struct {
	col *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{col: db.Collection(collectionFeedback)}
}

type mongoFeedback struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id"`
	ImageID         primitive.ObjectID `bson:"image_id"`
	Text            string             `bson:"feedback_text"`
	Rating          int                `bson:"rating"`
	ReviewedByAdmin bool               `bson:"reviewed_by_admin"`
	AdminID         primitive.ObjectID `bson:"admin_id,omitempty"`
	ReviewedAt      *time.Time         `bson:"reviewed_at,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (m *mongoFeedback) toDomain() *domain.Feedback {
	return &domain.Feedback{
		ID:              m.ID.Hex(),
		OwnerID:         hexOrEmpty(m.UserID),
		ImageID:         hexOrEmpty(m.ImageID),
		Text:            m.Text,
		Rating:          m.Rating,
		ReviewedByAdmin: m.ReviewedByAdmin,
		ReviewedBy:      hexOrEmpty(m.AdminID),
		ReviewedAt:      m.ReviewedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	user, err := objectID(fb.OwnerID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	img, err := objectID(fb.ImageID, domain.ErrImageNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoFeedback{
		ID:        primitive.NewObjectID(),
		UserID:    user,
		ImageID:   img,
		Text:      fb.Text,
		Rating:    fb.Rating,
		CreatedAt: fb.CreatedAt.UTC(),
		UpdatedAt: fb.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*domain.Feedback, error) {
	oid, err := objectID(id, domain.ErrFeedbackNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoFeedback
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FeedbackRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Feedback, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []*domain.Feedback{}, nil
	}
	return r.list(ctx, bson.M{"user_id": oid})
}

func (r *FeedbackRepository) ListByImage(ctx context.Context, imageID string) ([]*domain.Feedback, error) {
	oid, err := primitive.ObjectIDFromHex(imageID)
	if err != nil {
		return []*domain.Feedback{}, nil
	}
	return r.list(ctx, bson.M{"image_id": oid})
}

func (r *FeedbackRepository) ListAll(ctx context.Context) ([]*domain.Feedback, error) {
	return r.list(ctx, bson.M{})
}

func (r *FeedbackRepository) list(ctx context.Context, filter bson.M) ([]*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	var docs []mongoFeedback
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}
	out := make([]*domain.Feedback, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *FeedbackRepository) Update(ctx context.Context, id, text string, rating int) (*domain.Feedback, error) {
	return r.set(ctx, id, bson.M{"feedback_text": text, "rating": rating})
}

func (r *FeedbackRepository) MarkReviewed(ctx context.Context, id, adminID string) (*domain.Feedback, error) {
	admin, err := objectID(adminID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return r.set(ctx, id, bson.M{
		"reviewed_by_admin": true,
		"admin_id":          admin,
		"reviewed_at":       time.Now().UTC(),
	})
}

func (r *FeedbackRepository) set(ctx context.Context, id string, fields bson.M) (*domain.Feedback, error) {
	oid, err := objectID(id, domain.ErrFeedbackNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields["updated_at"] = time.Now().UTC()
	var doc mongoFeedback
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("update feedback: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrFeedbackNotFound)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFeedbackNotFound
	}
	return nil
}

func (r *FeedbackRepository) DeleteByImage(ctx context.Context, imageID string) error {
	return deleteByImage(ctx, r.col, imageID)
}
