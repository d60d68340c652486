package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// HistoryRepository implements ports.HistoryRepository using MongoDB.
type HistoryRepository struct {
	col *mongo.Collection
}

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{col: db.Collection(collectionHistory)}
}

type mongoHistory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	ImageID   primitive.ObjectID `bson:"image_id"`
	ResultID  primitive.ObjectID `bson:"classification_result_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (m *mongoHistory) toDomain() *domain.SearchHistory {
	return &domain.SearchHistory{
		ID:                     m.ID.Hex(),
		UserID:                 hexOrEmpty(m.UserID),
		ImageID:                hexOrEmpty(m.ImageID),
		ClassificationResultID: hexOrEmpty(m.ResultID),
		CreatedAt:              m.CreatedAt,
	}
}

// joinedHistory is one row of the ListByUser aggregation.
type joinedHistory struct {
	mongoHistory `bson:",inline"`
	Image        *mongoImage  `bson:"image,omitempty"`
	Result       *mongoResult `bson:"result,omitempty"`
}

func (r *HistoryRepository) Record(ctx context.Context, entry *domain.SearchHistory) (*domain.SearchHistory, error) {
	user, err := objectID(entry.UserID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	img, err := objectID(entry.ImageID, domain.ErrImageNotFound)
	if err != nil {
		return nil, err
	}
	res, err := objectID(entry.ClassificationResultID, domain.ErrClassificationNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoHistory{
		ID:        primitive.NewObjectID(),
		UserID:    user,
		ImageID:   img,
		ResultID:  res,
		CreatedAt: entry.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert search history: %w", err)
	}
	return doc.toDomain(), nil
}

// ListByUser joins each entry with its image and classification in one
// round trip.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.SearchEntry, error) {
	user, err := objectID(userID, domain.ErrUserNotFound)
	if err != nil {
		return []*domain.SearchEntry{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user_id", Value: user}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline,
		lookupOne(collectionImages, "image_id", "image")...,
	)
	pipeline = append(pipeline,
		lookupOne(collectionClassifications, "classification_result_id", "result")...,
	)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate search history: %w", err)
	}
	var rows []joinedHistory
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode search history: %w", err)
	}

	out := make([]*domain.SearchEntry, 0, len(rows))
	for i := range rows {
		e := &domain.SearchEntry{SearchHistory: *rows[i].mongoHistory.toDomain()}
		if rows[i].Image != nil {
			e.ImageURL = rows[i].Image.ImageURL
		}
		if rows[i].Result != nil {
			e.Result = rows[i].Result.toDomain()
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *HistoryRepository) DeleteByImage(ctx context.Context, imageID string) error {
	return deleteByImage(ctx, r.col, imageID)
}

// lookupOne joins a single referenced document and unwraps it, keeping rows
// whose reference is dangling.
func lookupOne(from, localField, as string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "localField", Value: localField},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: as},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + as},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}
