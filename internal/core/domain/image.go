package domain

import "time"

// Image is an uploaded mushroom photo owned by a single user.
type Image struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"userId"`
	ImageURL    string    `json:"imageUrl"`
	ObjectKey   string    `json:"publicId"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Verdict is what a classifier says about an image.
type Verdict struct {
	ClassificationType string
	IsSafe             bool
	Confidence         float64
	Description        string
}

// ClassificationResult is a persisted verdict for an image.
type ClassificationResult struct {
	ID                 string    `json:"id"`
	ImageID            string    `json:"imageId"`
	ClassificationType string    `json:"classificationType"`
	IsSafe             bool      `json:"isSafe"`
	Confidence         float64   `json:"confidence"`
	Description        string    `json:"description"`
	CreatedAt          time.Time `json:"createdAt"`
}

// SearchHistory links a user to one classification they requested.
type SearchHistory struct {
	ID                     string    `json:"id"`
	UserID                 string    `json:"userId"`
	ImageID                string    `json:"imageId"`
	ClassificationResultID string    `json:"classificationResultId"`
	CreatedAt              time.Time `json:"createdAt"`
}

// SearchEntry is a history row joined with its image URL and verdict.
type SearchEntry struct {
	SearchHistory
	ImageURL string                `json:"imageUrl"`
	Result   *ClassificationResult `json:"result,omitempty"`
}
