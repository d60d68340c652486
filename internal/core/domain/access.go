package domain

// Authorize applies the ownership rule shared by every user-owned resource:
// the owner may act on it, and so may any admin. Callers must check that the
// resource exists first so a missing resource is reported as not found.
func Authorize(actor *User, ownerID string) error {
	if actor == nil {
		return ErrUnauthorized
	}
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleUser:
		if ownerID != "" && ownerID == actor.ID {
			return nil
		}
		return ErrForbidden
	default:
		return ErrForbidden
	}
}
