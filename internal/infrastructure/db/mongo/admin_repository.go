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

type AdminRepository struct {
	col *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{col: db.Collection(collectionAdmins)}
}

type mongoPermissions struct {
	ManageUsers    bool `bson:"manage_users"`
	ReviewFeedback bool `bson:"review_feedback"`
	SystemSettings bool `bson:"system_settings"`
}

type mongoAdmin struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	Permissions mongoPermissions   `bson:"permissions"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (m *mongoAdmin) toDomain() *domain.AdminProfile {
	return &domain.AdminProfile{
		ID:     m.ID.Hex(),
		UserID: m.UserID.Hex(),
		Permissions: domain.Permissions{
			ManageUsers:    m.Permissions.ManageUsers,
			ReviewFeedback: m.Permissions.ReviewFeedback,
			SystemSettings: m.Permissions.SystemSettings,
		},
		CreatedAt: m.CreatedAt,
	}
}

func toMongoPermissions(p domain.Permissions) mongoPermissions {
	return mongoPermissions{
		ManageUsers:    p.ManageUsers,
		ReviewFeedback: p.ReviewFeedback,
		SystemSettings: p.SystemSettings,
	}
}

func (r *AdminRepository) FindByUserID(ctx context.Context, userID string) (*domain.AdminProfile, error) {
	oid, err := objectID(userID, domain.ErrAdminProfileNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAdmin
	if err := r.col.FindOne(ctx, bson.M{"user_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAdminProfileNotFound
		}
		return nil, fmt.Errorf("find admin profile: %w", err)
	}
	return doc.toDomain(), nil
}

// Ensure upserts with $setOnInsert so an existing profile is left untouched.
func (r *AdminRepository) Ensure(ctx context.Context, userID string, perms domain.Permissions) (*domain.AdminProfile, error) {
	oid, err := objectID(userID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$setOnInsert": bson.M{
		"user_id":     oid,
		"permissions": toMongoPermissions(perms),
		"created_at":  time.Now().UTC(),
	}}
	var doc mongoAdmin
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": oid},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("ensure admin profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AdminRepository) UpdatePermissions(ctx context.Context, userID string, perms domain.Permissions) (*domain.AdminProfile, error) {
	oid, err := objectID(userID, domain.ErrAdminProfileNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAdmin
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": oid},
		bson.M{"$set": bson.M{"permissions": toMongoPermissions(perms)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAdminProfileNotFound
		}
		return nil, fmt.Errorf("update admin permissions: %w", err)
	}
	return doc.toDomain(), nil
}
