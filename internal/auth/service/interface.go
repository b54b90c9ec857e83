// Package service implements the building blocks of the versioned credential lifecycle:
// version stamps per principal and credential class, refresh token fingerprints,
// signed credential issuance and per-principal serialization.
package service

import (
	"context"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// VersionRepository persists the current version stamp per principal and class.
// Get returns authDomain.ErrVersionNotFound when no stamp is stored.
type VersionRepository interface {
	Get(ctx context.Context, class authDomain.CredentialClass, principalID string) (string, error)
	Set(ctx context.Context, class authDomain.CredentialClass, principalID, version string) error
	// SetAll writes the stamps of several classes of one principal as a single unit.
	SetAll(ctx context.Context, principalID string, versions map[authDomain.CredentialClass]string) error
}

// FingerprintHasher produces one-way salted fingerprints of refresh tokens.
type FingerprintHasher interface {
	// Hash returns the fingerprint of token.
	Hash(token string) (string, error)

	// Verify reports whether token matches fingerprint. Never errors; any failure is a mismatch.
	Verify(token, fingerprint string) bool
}
