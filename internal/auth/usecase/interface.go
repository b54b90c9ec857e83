// Package usecase orchestrates the versioned credential lifecycle: login, refresh and
// logout of administrative principals, and authorization of presented access tokens.
package usecase

import (
	"context"

	"github.com/google/uuid"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// AdminRepository is the subset of the principal store the session lifecycle needs.
// Implementations must support transaction-aware operations via context propagation.
type AdminRepository interface {
	// Get retrieves an admin by ID. Returns ErrAdminNotFound if not found.
	Get(ctx context.Context, adminID uuid.UUID) (*adminDomain.Admin, error)

	// GetByUsername retrieves an admin by username. Returns ErrAdminNotFound if not found.
	GetByUsername(ctx context.Context, username string) (*adminDomain.Admin, error)

	// UpdateRefreshTokenHash stores the refresh token fingerprint, or clears it when hash is nil.
	UpdateRefreshTokenHash(ctx context.Context, adminID uuid.UUID, hash *string) error
}

// VersionStore reads and supersedes per-principal version stamps. New stamps are staged,
// used to mint tokens and then committed in one write.
type VersionStore interface {
	Get(ctx context.Context, principalID string, class authDomain.CredentialClass) (string, error)
	Stage(classes ...authDomain.CredentialClass) map[authDomain.CredentialClass]string
	Commit(ctx context.Context, principalID string, staged map[authDomain.CredentialClass]string) error
}

// TokenIssuer mints and verifies signed credentials.
type TokenIssuer interface {
	IssueAccessToken(principalID string, role authDomain.Role, accessVersion string) (string, error)
	IssueRefreshToken(principalID string, role authDomain.Role, refreshVersion string) (string, error)
	Verify(token string, class authDomain.CredentialClass) (*authDomain.Claims, error)
}

// SecretMatcher checks a candidate login secret against its stored ciphertext.
type SecretMatcher interface {
	SecretMatches(ciphertext, candidate string) (bool, error)
}

// PrincipalLocker serializes mutations of the same principal.
type PrincipalLocker interface {
	LockContext(ctx context.Context, principalID string) (context.Context, func())
}

// SessionUseCase owns the session lifecycle of administrative principals.
type SessionUseCase interface {
	// Login verifies username and secret, supersedes every credential previously issued to
	// the principal and returns a fresh access/refresh pair.
	//
	// Returns ErrAdminNotFound for an unknown username, ErrInvalidSecretFormat when the
	// stored secret cannot be decrypted and ErrWrongSecret on mismatch.
	Login(ctx context.Context, username, secret string) (*authDomain.TokenPair, error)

	// Refresh exchanges the last issued refresh token for a new access token. Only the
	// access version is rotated; the refresh token stays valid.
	Refresh(ctx context.Context, refreshToken string) (*authDomain.AccessTokenOutput, error)

	// Logout revokes every outstanding credential of the principal. Idempotent.
	Logout(ctx context.Context, principalID uuid.UUID) error
}

// AuthorizationGuard decides whether a request may proceed.
type AuthorizationGuard interface {
	// Check verifies the bearer token in authorizationHeader against the current version
	// stamps and the required roles. An empty roles set admits any verified principal.
	Check(
		ctx context.Context,
		authorizationHeader string,
		roles []authDomain.Role,
	) (*authDomain.AuthenticatedIdentity, error)
}
