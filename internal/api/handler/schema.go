package handler

import "github.com/batagalla/mushmind-detector/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Users ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// --- Images ---

type imageResponse struct {
	Image *domain.Image `json:"image"`
}

type imageDetailResponse struct {
	Image                *domain.Image                `json:"image"`
	ClassificationResult *domain.ClassificationResult `json:"classificationResult"`
}

type imageListResponse struct {
	Count  int             `json:"count"`
	Images []*domain.Image `json:"images"`
}

type classifyResponse struct {
	Result *domain.ClassificationResult `json:"result"`
}

type historyResponse struct {
	Count    int                   `json:"count"`
	Searches []*domain.SearchEntry `json:"searches"`
}

// --- Feedback ---

type createFeedbackRequest struct {
	ImageID string `json:"imageId" validate:"required"`
	Text    string `json:"text"    validate:"required,max=2000"`
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
}

type updateFeedbackRequest struct {
	Text   string `json:"text"   validate:"required,max=2000"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

type feedbackResponse struct {
	Feedback *domain.Feedback `json:"feedback"`
}

type feedbackListResponse struct {
	Count    int                `json:"count"`
	Feedback []*domain.Feedback `json:"feedback"`
}

// --- Admin ---

type userListResponse struct {
	Count int            `json:"count"`
	Users []*domain.User `json:"users"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type permissionsRequest struct {
	ManageUsers    bool `json:"manageUsers"`
	ReviewFeedback bool `json:"reviewFeedback"`
	SystemSettings bool `json:"systemSettings"`
}

type adminProfileResponse struct {
	Admin *domain.AdminProfile `json:"admin"`
}

type systemSettingsRequest struct {
	ImageSizeLimitMB         int  `json:"imageSizeLimit"  validate:"required,min=1"`
	RetentionPeriodDays      int  `json:"retentionPeriod" validate:"required,min=1"`
	EnableNotifications      bool `json:"enableNotifications"`
	EnableAuditLogs          bool `json:"enableAuditLogs"`
	AllowAccountDeletion     bool `json:"allowAccountDeletion"`
	RequireEmailVerification bool `json:"requireEmailVerification"`
	MaintenanceMode          bool `json:"maintenanceMode"`
}

type modelSettingsRequest struct {
	ConfidenceThreshold float64 `json:"confidenceThreshold" validate:"min=0,max=1"`
	EnableAutoLearning  bool    `json:"enableAutoLearning"`
	DatasetSize         int     `json:"datasetSize"         validate:"min=0"`
	AccuracyScore       float64 `json:"accuracyScore"       validate:"min=0,max=1"`
}

type systemSettingsResponse struct {
	Settings *domain.SystemSettings `json:"settings"`
}

type modelSettingsResponse struct {
	Settings *domain.ModelSettings `json:"settings"`
}
