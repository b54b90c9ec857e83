package usecase

import (
	"context"

	"github.com/google/uuid"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	"github.com/allisson/gatekeeper/internal/database"
)

// sessionUseCase implements SessionUseCase. Every mutation of a principal runs under its
// lock. New stamps are staged and used to mint tokens first; the fingerprint write and the
// stamp commit then run in one transaction with the commit last, so a failure at any
// earlier step leaves stamps and fingerprint untouched.
//
// SQL version stores join the transaction. Redis and memory stores apply the commit on
// their own; if the SQL commit fails after it, stamps are rotated while the fingerprint is
// not, which revokes the old session and never grants a new one.
type sessionUseCase struct {
	txManager database.TxManager
	adminRepo AdminRepository
	versions  VersionStore
	issuer    TokenIssuer
	secrets   SecretMatcher
	hasher    authService.FingerprintHasher
	locker    PrincipalLocker
}

// Login authenticates username/secret and opens a new session.
//
// Both version stamps are superseded, so any credential issued by an earlier login stops
// verifying as soon as this call returns. The secret is checked against the row read
// under the principal lock, so a concurrent password change is either fully visible or
// revokes this session afterwards.
func (s *sessionUseCase) Login(ctx context.Context, username, secret string) (*authDomain.TokenPair, error) {
	found, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	principalID := found.ID.String()
	ctx, unlock := s.locker.LockContext(ctx, principalID)
	defer unlock()

	admin, err := s.adminRepo.Get(ctx, found.ID)
	if err != nil {
		return nil, err
	}
	if admin.Username != found.Username {
		return nil, adminDomain.ErrAdminNotFound
	}

	matches, err := s.secrets.SecretMatches(admin.Password, secret)
	if err != nil {
		return nil, authDomain.ErrInvalidSecretFormat
	}
	if !matches {
		return nil, authDomain.ErrWrongSecret
	}

	staged := s.versions.Stage(authDomain.AccessClass, authDomain.RefreshClass)

	accessToken, err := s.issuer.IssueAccessToken(principalID, admin.Role, staged[authDomain.AccessClass])
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.issuer.IssueRefreshToken(principalID, admin.Role, staged[authDomain.RefreshClass])
	if err != nil {
		return nil, err
	}
	fingerprint, err := s.hasher.Hash(refreshToken)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.adminRepo.UpdateRefreshTokenHash(ctx, admin.ID, &fingerprint); err != nil {
			return err
		}
		return s.versions.Commit(ctx, principalID, staged)
	})
	if err != nil {
		return nil, err
	}

	return &authDomain.TokenPair{
		Username:     admin.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh mints a new access token for the holder of the last issued refresh token.
//
// A principal without a fingerprint has logged out (or never logged in): the token's
// refresh version decides between ErrCredentialRevoked and ErrRefreshMismatch. A present
// fingerprint that does not match means a later login superseded the token.
func (s *sessionUseCase) Refresh(
	ctx context.Context,
	refreshToken string,
) (*authDomain.AccessTokenOutput, error) {
	claims, err := s.issuer.Verify(refreshToken, authDomain.RefreshClass)
	if err != nil {
		return nil, err
	}

	adminID, err := uuid.Parse(claims.PrincipalID)
	if err != nil {
		return nil, authDomain.ErrTokenMalformed
	}

	ctx, unlock := s.locker.LockContext(ctx, claims.PrincipalID)
	defer unlock()

	admin, err := s.adminRepo.Get(ctx, adminID)
	if err != nil {
		return nil, err
	}

	refreshVersion, err := s.versions.Get(ctx, claims.PrincipalID, authDomain.RefreshClass)
	if err != nil {
		return nil, err
	}

	switch {
	case !admin.HasSession() && claims.Version != refreshVersion:
		return nil, authDomain.ErrCredentialRevoked
	case !admin.HasSession() || !s.hasher.Verify(refreshToken, *admin.RefreshTokenHash):
		return nil, authDomain.ErrRefreshMismatch
	case claims.Version != refreshVersion:
		return nil, authDomain.ErrCredentialRevoked
	}

	staged := s.versions.Stage(authDomain.AccessClass)
	accessToken, err := s.issuer.IssueAccessToken(claims.PrincipalID, admin.Role, staged[authDomain.AccessClass])
	if err != nil {
		return nil, err
	}

	if err := s.versions.Commit(ctx, claims.PrincipalID, staged); err != nil {
		return nil, err
	}

	return &authDomain.AccessTokenOutput{AccessToken: accessToken}, nil
}

// Logout supersedes both version stamps and forgets the refresh fingerprint.
func (s *sessionUseCase) Logout(ctx context.Context, principalID uuid.UUID) error {
	id := principalID.String()
	ctx, unlock := s.locker.LockContext(ctx, id)
	defer unlock()

	if _, err := s.adminRepo.Get(ctx, principalID); err != nil {
		return err
	}

	staged := s.versions.Stage(authDomain.AccessClass, authDomain.RefreshClass)
	return s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.adminRepo.UpdateRefreshTokenHash(ctx, principalID, nil); err != nil {
			return err
		}
		return s.versions.Commit(ctx, id, staged)
	})
}

// NewSessionUseCase creates a new SessionUseCase with the provided dependencies.
func NewSessionUseCase(
	txManager database.TxManager,
	adminRepo AdminRepository,
	versions VersionStore,
	issuer TokenIssuer,
	secrets SecretMatcher,
	hasher authService.FingerprintHasher,
	locker PrincipalLocker,
) SessionUseCase {
	return &sessionUseCase{
		txManager: txManager,
		adminRepo: adminRepo,
		versions:  versions,
		issuer:    issuer,
		secrets:   secrets,
		hasher:    hasher,
		locker:    locker,
	}
}
