// internal/domain/models/user.go
package models

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The email address users type to log in

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a console operator. Console accounts are separate from the
// employee roster: employees live behind the business API and never log in
// here.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped

	LoginID   string `bson:"login_id" json:"login_id"`       // email used to sign in (lowercase)
	LoginIDCI string `bson:"login_id_ci" json:"login_id_ci"` // folded for case/diacritic-insensitive matching

	PasswordHash string `bson:"password_hash" json:"-"` // bcrypt hash (never in JSON)

	Role   string `bson:"role" json:"role"`     // admin, staff
	Status string `bson:"status" json:"status"` // active, disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// User roles. Admins manage console accounts and can edit or delete payment
// rows; staff get read-only reports plus the hour entry forms.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// AllRoles returns all valid console roles.
func AllRoles() []string {
	return []string{RoleAdmin, RoleStaff}
}

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// DefaultSiteName is the console name shown in the page chrome.
const DefaultSiteName = "MoveBoard"
