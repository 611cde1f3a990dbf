package models

import (
	"time"

	id "drainadopt/pkg/domain"
)

// Role is a user's authority level.
type Role string

const (
	RoleAdopter Role = "ADOPTER"
	RoleAdmin   Role = "ADMIN"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdopter || r == RoleAdmin
}

// User is a registered account. AdoptedDrainID is the user side of the
// adoption link; it is nil or names a drain whose adopter is this user.
type User struct {
	ID             id.UserID
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	AdoptedDrainID *id.DrainID
	CreatedAt      time.Time
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasAdopted reports whether the user currently adopts a drain.
func (u *User) HasAdopted() bool {
	return u.AdoptedDrainID != nil
}

// View is the public projection of a user.
type View struct {
	ID             id.UserID   `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           Role        `json:"role"`
	AdoptedDrainID *id.DrainID `json:"adoptedDrainId"`
}

// ToView projects u for API responses; the password hash never leaves.
func (u *User) ToView() View {
	return View{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		AdoptedDrainID: u.AdoptedDrainID,
	}
}
