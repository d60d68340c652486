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

type ImageRepository struct {
	col *mongo.Collection
}

func NewImageRepository(db *mongo.Database) *ImageRepository {
	return &ImageRepository{col: db.Collection(collectionImages)}
}

type mongoImage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	ImageURL    string             `bson:"image_url"`
	PublicID    string             `bson:"public_id"`
	ContentType string             `bson:"content_type"`
	Size        int64              `bson:"size"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (m *mongoImage) toDomain() *domain.Image {
	return &domain.Image{
		ID:          m.ID.Hex(),
		OwnerID:     hexOrEmpty(m.UserID),
		ImageURL:    m.ImageURL,
		ObjectKey:   m.PublicID,
		ContentType: m.ContentType,
		Size:        m.Size,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *ImageRepository) Create(ctx context.Context, img *domain.Image) (*domain.Image, error) {
	owner, err := objectID(img.OwnerID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoImage{
		ID:          primitive.NewObjectID(),
		UserID:      owner,
		ImageURL:    img.ImageURL,
		PublicID:    img.ObjectKey,
		ContentType: img.ContentType,
		Size:        img.Size,
		CreatedAt:   img.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert image: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ImageRepository) FindByID(ctx context.Context, id string) (*domain.Image, error) {
	oid, err := objectID(id, domain.ErrImageNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoImage
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("find image: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ImageRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Image, error) {
	owner, err := objectID(ownerID, domain.ErrUserNotFound)
	if err != nil {
		return []*domain.Image{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": owner}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	var docs []mongoImage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	out := make([]*domain.Image, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrImageNotFound)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}

type ClassificationRepository struct {
	col *mongo.Collection
}

func NewClassificationRepository(db *mongo.Database) *ClassificationRepository {
	return &ClassificationRepository{col: db.Collection(collectionClassifications)}
}

type mongoResult struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	ImageID            primitive.ObjectID `bson:"image_id"`
	ClassificationType string             `bson:"classification_type"`
	IsSafe             bool               `bson:"is_safe"`
	Confidence         float64            `bson:"confidence"`
	Description        string             `bson:"description"`
	CreatedAt          time.Time          `bson:"created_at"`
}

func (m *mongoResult) toDomain() *domain.ClassificationResult {
	return &domain.ClassificationResult{
		ID:                 m.ID.Hex(),
		ImageID:            hexOrEmpty(m.ImageID),
		ClassificationType: m.ClassificationType,
		IsSafe:             m.IsSafe,
		Confidence:         m.Confidence,
		Description:        m.Description,
		CreatedAt:          m.CreatedAt,
	}
}

func (r *ClassificationRepository) Create(ctx context.Context, res *domain.ClassificationResult) (*domain.ClassificationResult, error) {
	img, err := objectID(res.ImageID, domain.ErrImageNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoResult{
		ID:                 primitive.NewObjectID(),
		ImageID:            img,
		ClassificationType: res.ClassificationType,
		IsSafe:             res.IsSafe,
		Confidence:         res.Confidence,
		Description:        res.Description,
		CreatedAt:          res.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert classification: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClassificationRepository) LatestForImage(ctx context.Context, imageID string) (*domain.ClassificationResult, error) {
	img, err := objectID(imageID, domain.ErrClassificationNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoResult
	err = r.col.FindOne(ctx,
		bson.M{"image_id": img},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClassificationNotFound
		}
		return nil, fmt.Errorf("find classification: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClassificationRepository) DeleteByImage(ctx context.Context, imageID string) error {
	return deleteByImage(ctx, r.col, imageID)
}

func deleteByImage(ctx context.Context, col *mongo.Collection, imageID string) error {
	img, err := objectID(imageID, domain.ErrImageNotFound)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.DeleteMany(ctx, bson.M{"image_id": img}); err != nil {
		return fmt.Errorf("delete from %s: %w", col.Name(), err)
	}
	return nil
}
