package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

const (
	systemSettingsID = "system"
	modelSettingsID  = "model"
)

// SettingsRepository keeps both singleton settings documents in one
// collection, keyed by a fixed _id.
type SettingsRepository struct {
	col *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{col: db.Collection(collectionSettings)}
}

type mongoSystemSettings struct {
	ImageSizeLimitMB         int       `bson:"image_size_limit"`
	RetentionPeriodDays      int       `bson:"retention_period"`
	EnableNotifications      bool      `bson:"enable_notifications"`
	EnableAuditLogs          bool      `bson:"enable_audit_logs"`
	AllowAccountDeletion     bool      `bson:"allow_account_deletion"`
	RequireEmailVerification bool      `bson:"require_email_verification"`
	MaintenanceMode          bool      `bson:"maintenance_mode"`
	UpdatedAt                time.Time `bson:"updated_at"`
	UpdatedBy                string    `bson:"updated_by"`
}

type mongoModelSettings struct {
	ConfidenceThreshold float64   `bson:"confidence_threshold"`
	EnableAutoLearning  bool      `bson:"enable_auto_learning"`
	DatasetSize         int       `bson:"dataset_size"`
	AccuracyScore       float64   `bson:"accuracy_score"`
	UpdatedAt           time.Time `bson:"updated_at"`
	UpdatedBy           string    `bson:"updated_by"`
}

func (r *SettingsRepository) GetSystem(ctx context.Context) (*domain.SystemSettings, error) {
	var doc mongoSystemSettings
	found, err := r.get(ctx, systemSettingsID, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		d := domain.DefaultSystemSettings()
		return &d, nil
	}
	out := domain.SystemSettings(doc)
	return &out, nil
}

func (r *SettingsRepository) SaveSystem(ctx context.Context, s domain.SystemSettings) (*domain.SystemSettings, error) {
	if err := r.save(ctx, systemSettingsID, mongoSystemSettings(s)); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) GetModel(ctx context.Context) (*domain.ModelSettings, error) {
	var doc mongoModelSettings
	found, err := r.get(ctx, modelSettingsID, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		d := domain.DefaultModelSettings()
		return &d, nil
	}
	out := domain.ModelSettings(doc)
	return &out, nil
}

func (r *SettingsRepository) SaveModel(ctx context.Context, s domain.ModelSettings) (*domain.ModelSettings, error) {
	if err := r.save(ctx, modelSettingsID, mongoModelSettings(s)); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) get(ctx context.Context, id string, out interface{}) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find %s settings: %w", id, err)
	}
	return true, nil
}

func (r *SettingsRepository) save(ctx context.Context, id string, doc interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %s settings: %w", id, err)
	}
	return nil
}

// StatsRepository counts documents for the admin dashboard.
type StatsRepository struct {
	db *mongo.Database
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, collectionUsers, bson.M{})
}

func (r *StatsRepository) CountImages(ctx context.Context) (int64, error) {
	return r.count(ctx, collectionImages, bson.M{})
}

func (r *StatsRepository) CountSearches(ctx context.Context) (int64, error) {
	return r.count(ctx, collectionHistory, bson.M{})
}

func (r *StatsRepository) CountPendingFeedback(ctx context.Context) (int64, error) {
	return r.count(ctx, collectionFeedback, bson.M{"reviewed_by_admin": false})
}

func (r *StatsRepository) count(ctx context.Context, coll string, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.db.Collection(coll).CountDocuments(ctx, filter)
}
