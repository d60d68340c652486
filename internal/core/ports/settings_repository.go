package ports

import (
	"context"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// SettingsRepository stores the singleton settings documents. Getters return
// the defaults when nothing has been saved yet.
type SettingsRepository interface {
	GetSystem(ctx context.Context) (*domain.SystemSettings, error)
	SaveSystem(ctx context.Context, s domain.SystemSettings) (*domain.SystemSettings, error)
	GetModel(ctx context.Context) (*domain.ModelSettings, error)
	SaveModel(ctx context.Context, s domain.ModelSettings) (*domain.ModelSettings, error)
}

// StatsRepository computes dashboard counters.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountImages(ctx context.Context) (int64, error)
	CountSearches(ctx context.Context) (int64, error)
	CountPendingFeedback(ctx context.Context) (int64, error)
}
