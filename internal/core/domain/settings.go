package domain

import "time"

// SystemSettings holds operator-tunable platform switches.
type SystemSettings struct {
	ImageSizeLimitMB         int       `json:"imageSizeLimit"`
	RetentionPeriodDays      int       `json:"retentionPeriod"`
	EnableNotifications      bool      `json:"enableNotifications"`
	EnableAuditLogs          bool      `json:"enableAuditLogs"`
	AllowAccountDeletion     bool      `json:"allowAccountDeletion"`
	RequireEmailVerification bool      `json:"requireEmailVerification"`
	MaintenanceMode          bool      `json:"maintenanceMode"`
	UpdatedAt                time.Time `json:"updatedAt,omitempty"`
	UpdatedBy                string    `json:"updatedBy,omitempty"`
}

// DefaultSystemSettings is returned until an admin saves settings.
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		ImageSizeLimitMB:         10,
		RetentionPeriodDays:      30,
		EnableNotifications:      true,
		EnableAuditLogs:          true,
		AllowAccountDeletion:     false,
		RequireEmailVerification: true,
		MaintenanceMode:          false,
	}
}

// ModelSettings describes the classifier configuration shown to admins.
type ModelSettings struct {
	ConfidenceThreshold float64   `json:"confidenceThreshold"`
	EnableAutoLearning  bool      `json:"enableAutoLearning"`
	DatasetSize         int       `json:"datasetSize"`
	AccuracyScore       float64   `json:"accuracyScore"`
	UpdatedAt           time.Time `json:"updatedAt,omitempty"`
	UpdatedBy           string    `json:"updatedBy,omitempty"`
}

// DefaultModelSettings is returned until an admin saves settings.
func DefaultModelSettings() ModelSettings {
	return ModelSettings{
		ConfidenceThreshold: 0.85,
		EnableAutoLearning:  true,
		DatasetSize:         12500,
		AccuracyScore:       0.94,
	}
}

// DashboardStats are the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers      int64   `json:"totalUsers"`
	TotalImages     int64   `json:"totalImages"`
	TotalSearches   int64   `json:"totalSearches"`
	PendingFeedback int64   `json:"pendingFeedback"`
	ModelAccuracy   float64 `json:"modelAccuracy"`
}
