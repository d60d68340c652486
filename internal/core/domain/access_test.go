package domain

import (
	"errors"
	"testing"
)

func TestAuthorize(t *testing.T) {
	owner := &User{ID: "u1", Role: RoleUser}
	other := &User{ID: "u2", Role: RoleUser}
	admin := &User{ID: "a1", Role: RoleAdmin}
	bogus := &User{ID: "u1", Role: Role("root")}

	cases := []struct {
		name  string
		actor *User
		owner string
		want  error
	}{
		{"owner", owner, "u1", nil},
		{"admin", admin, "u1", nil},
		{"other user", other, "u1", ErrForbidden},
		{"unknown role", bogus, "u1", ErrForbidden},
		{"empty owner", owner, "", ErrForbidden},
		{"anonymous", nil, "u1", ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Authorize(tc.actor, tc.owner); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("admin"); err != nil || r != RoleAdmin {
		t.Fatalf("expected admin, got %q %v", r, err)
	}
	if _, err := ParseRole("moderator"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPermissionsAllows(t *testing.T) {
	p := DefaultPermissions()
	if !p.Allows(PermManageUsers) || !p.Allows(PermReviewFeedback) || p.Allows(PermSystemSettings) {
		t.Fatalf("unexpected default permissions: %+v", p)
	}
	if FullPermissions().Allows(Permission("other")) {
		t.Fatal("unknown permission must be denied")
	}
}

func TestTokenErrorsAreInvalidToken(t *testing.T) {
	for _, err := range []error{ErrTokenMalformed, ErrTokenExpired, ErrTokenBadSignature} {
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%v does not match ErrInvalidToken", err)
		}
	}
}
