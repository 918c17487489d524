package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system (matches user_role enum)
type Role string

const (
	RoleClient Role = "client"
	RoleArtist Role = "artist"
)

// User represents a user account (matches users table)
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	DisplayName  string    `db:"display_name"`
	Role         Role      `db:"role"`

	AvatarURL sql.NullString `db:"avatar_url"`

	// Login tracking
	LastLoginAt sql.NullTime `db:"last_login_at"`

	// Timestamps
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsClient returns true if user is a client
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// IsArtist returns true if user is an artist
func (u *User) IsArtist() bool {
	return u.Role == RoleArtist
}

// ValidRoles returns list of valid roles for registration
func ValidRoles() []Role {
	return []Role{RoleClient, RoleArtist}
}

// IsValidRole checks if role is valid for registration
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if string(r) == role {
			return true
		}
	}
	return false
}
