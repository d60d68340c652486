package domain

import "time"

// Permission names a capability carried by an AdminProfile.
type Permission string

const (
	PermManageUsers    Permission = "manageUsers"
	PermReviewFeedback Permission = "reviewFeedback"
	PermSystemSettings Permission = "systemSettings"
)

// Permissions are the per-admin capability flags.
type Permissions struct {
	ManageUsers    bool `json:"manageUsers"`
	ReviewFeedback bool `json:"reviewFeedback"`
	SystemSettings bool `json:"systemSettings"`
}

// DefaultPermissions are granted when a user is promoted to admin.
func DefaultPermissions() Permissions {
	return Permissions{ManageUsers: true, ReviewFeedback: true, SystemSettings: false}
}

// FullPermissions are granted to the bootstrap admin.
func FullPermissions() Permissions {
	return Permissions{ManageUsers: true, ReviewFeedback: true, SystemSettings: true}
}

// Allows reports whether p includes perm.
func (p Permissions) Allows(perm Permission) bool {
	switch perm {
	case PermManageUsers:
		return p.ManageUsers
	case PermReviewFeedback:
		return p.ReviewFeedback
	case PermSystemSettings:
		return p.SystemSettings
	default:
		return false
	}
}

// AdminProfile is the 1:1 companion record every admin must have.
type AdminProfile struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Permissions Permissions `json:"permissions"`
	CreatedAt   time.Time   `json:"createdAt"`
}
