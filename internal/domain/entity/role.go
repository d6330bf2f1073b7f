package entity

import (
	"fmt"

	"github.com/oksasatya/users-backend/internal/domain/apperr"
)

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// ParseRole converts a raw string into a Role, rejecting anything outside the enumeration.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleUser:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", apperr.ErrInvalidArgument, raw)
	}
}

func (r Role) String() string { return string(r) }
