package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a user's comment and rating about a classified image.
type Feedback struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"userId"`
	ImageID         string     `json:"imageId"`
	Text            string     `json:"text"`
	Rating          int        `json:"rating"`
	ReviewedByAdmin bool       `json:"reviewedByAdmin"`
	ReviewedBy      string     `json:"adminId,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ValidRating reports whether r is within the accepted star range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
