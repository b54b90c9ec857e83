// Package usecase implements administrative principal management.
package usecase

import (
	"context"

	"github.com/google/uuid"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
)

// AdminRepository defines persistence operations for admins.
// Implementations must support transaction-aware operations via context propagation.
type AdminRepository interface {
	Create(ctx context.Context, admin *adminDomain.Admin) error
	Update(ctx context.Context, admin *adminDomain.Admin) error
	Get(ctx context.Context, adminID uuid.UUID) (*adminDomain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*adminDomain.Admin, error)
	Delete(ctx context.Context, adminID uuid.UUID) error
	List(ctx context.Context, filter adminDomain.ListFilter) ([]*adminDomain.Admin, error)
}

// SecretEncrypter produces the stored form of a login secret.
type SecretEncrypter interface {
	EncryptSecret(plaintext string) (string, error)
}

// SessionRevoker supersedes every outstanding credential of a principal.
type SessionRevoker interface {
	Logout(ctx context.Context, principalID uuid.UUID) error
}

// PrincipalLocker serializes credential mutations of one principal. A context that
// already holds the lock for the same principal passes through without blocking.
type PrincipalLocker interface {
	LockContext(ctx context.Context, principalID string) (context.Context, func())
}

// UseCase defines admin management operations.
type UseCase interface {
	// Create validates the input, encrypts the password and stores a new admin.
	// Returns ErrBusyUsername when the username is taken.
	Create(ctx context.Context, input *adminDomain.CreateAdminInput) (*adminDomain.Admin, error)

	// Get retrieves an admin by ID. Returns ErrAdminNotFound if not found.
	Get(ctx context.Context, adminID uuid.UUID) (*adminDomain.Admin, error)

	// List returns admins newest first.
	List(ctx context.Context, filter adminDomain.ListFilter) ([]*adminDomain.Admin, error)

	// Update changes username and/or password. A password change revokes every session.
	Update(
		ctx context.Context,
		adminID uuid.UUID,
		input *adminDomain.UpdateAdminInput,
	) (*adminDomain.Admin, error)

	// Delete revokes every session of the admin and removes it.
	Delete(ctx context.Context, adminID uuid.UUID) error
}
