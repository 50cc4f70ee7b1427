// Package auth holds the authenticated caller and the role ordering.
package auth

import (
	"errors"

	"github.com/Skotchmaster/shop_api/internal/models"
)

var ErrForbidden = errors.New("forbidden")

// Principal is the verified caller of a request. It is produced once by the
// authentication middleware and passed by value afterwards.
type Principal struct {
	UserID uint
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Satisfies reports whether role meets min: admin satisfies any level,
// user only user.
func Satisfies(role, min string) bool {
	switch role {
	case models.RoleAdmin:
		return min == models.RoleAdmin || min == models.RoleUser
	case models.RoleUser:
		return min == models.RoleUser
	default:
		return false
	}
}

func Require(p Principal, min string) error {
	if !Satisfies(p.Role, min) {
		return ErrForbidden
	}
	return nil
}

// RequireOwner lets the owner or an admin through.
func RequireOwner(p Principal, ownerID uint) error {
	if p.IsAdmin() || p.UserID == ownerID {
		return nil
	}
	return ErrForbidden
}
