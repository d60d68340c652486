package domain

import (
	"errors"
	"fmt"
)

// Authentication and authorization errors.
var (
	ErrUnauthorized       = errors.New("not authenticated")         // 401
	ErrInvalidCredentials = errors.New("invalid email or password") // 401
	ErrInvalidToken       = errors.New("invalid token")             // 401
	ErrForbidden          = errors.New("access forbidden")          // 403
	ErrTooManyAttempts    = errors.New("too many login attempts")   // 429
)

// Token failure kinds. Each one matches ErrInvalidToken with errors.Is.
var (
	ErrTokenMalformed    = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenExpired      = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrTokenBadSignature = fmt.Errorf("%w: bad signature", ErrInvalidToken)
)

// Lookup errors. Each one matches ErrNotFound with errors.Is.
var (
	ErrNotFound               = errors.New("not found")
	ErrUserNotFound           = fmt.Errorf("user %w", ErrNotFound)
	ErrAdminProfileNotFound   = fmt.Errorf("admin profile %w", ErrNotFound)
	ErrImageNotFound          = fmt.Errorf("image %w", ErrNotFound)
	ErrClassificationNotFound = fmt.Errorf("classification %w", ErrNotFound)
	ErrFeedbackNotFound       = fmt.Errorf("feedback %w", ErrNotFound)
)

// Input errors.
var (
	ErrValidation  = errors.New("validation failed")               // 400
	ErrInvalidRole = fmt.Errorf("%w: invalid role", ErrValidation) // 400
	ErrEmailInUse  = errors.New("email already in use")            // 400
)

// Invalid wraps a human-readable reason so that it matches ErrValidation.
func Invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}
