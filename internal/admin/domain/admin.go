// Package domain defines the administrative principal.
package domain

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// Admin is an administrative principal. Password holds the reversible ciphertext of the
// login secret, never the plaintext. RefreshTokenHash is the fingerprint of the last
// issued refresh token and is nil while no session is open.
type Admin struct {
	ID               uuid.UUID
	Username         string
	Password         string
	Role             authDomain.Role
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasSession reports whether a refresh fingerprint is stored.
func (a *Admin) HasSession() bool {
	return a.RefreshTokenHash != nil && *a.RefreshTokenHash != ""
}

// ListFilter narrows admin listings.
type ListFilter struct {
	Offset   int
	Limit    int
	Username string
}

// CreateAdminInput contains the data needed to create an admin. Role defaults to admin.
type CreateAdminInput struct {
	Username string
	Password string
	Role     authDomain.Role
}

// UpdateAdminInput lists the fields an update may change. Nil fields are left untouched.
type UpdateAdminInput struct {
	Username *string
	Password *string
}
