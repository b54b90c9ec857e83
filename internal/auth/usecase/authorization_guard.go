package usecase

import (
	"context"
	"strings"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

const bearerScheme = "bearer"

// authorizationGuard implements AuthorizationGuard. It never writes.
type authorizationGuard struct {
	issuer   TokenIssuer
	versions VersionStore
}

// Check runs the authorization pipeline. Failures are reported in order: missing
// credential, malformed or expired token, revoked version, forbidden role.
func (g *authorizationGuard) Check(
	ctx context.Context,
	authorizationHeader string,
	roles []authDomain.Role,
) (*authDomain.AuthenticatedIdentity, error) {
	token, err := parseBearer(authorizationHeader)
	if err != nil {
		return nil, err
	}

	claims, err := g.issuer.Verify(token, authDomain.AccessClass)
	if err != nil {
		return nil, err
	}

	accessVersion, err := g.versions.Get(ctx, claims.PrincipalID, authDomain.AccessClass)
	if err != nil {
		return nil, err
	}
	refreshVersion, err := g.versions.Get(ctx, claims.PrincipalID, authDomain.RefreshClass)
	if err != nil {
		return nil, err
	}

	if claims.Version != accessVersion {
		return nil, authDomain.ErrCredentialRevoked
	}

	identity := &authDomain.AuthenticatedIdentity{
		PrincipalID:    claims.PrincipalID,
		Role:           claims.Role,
		AccessVersion:  accessVersion,
		RefreshVersion: refreshVersion,
	}
	if !identity.HasAnyRole(roles) {
		return nil, authDomain.ErrForbidden
	}

	return identity, nil
}

// parseBearer extracts the token from "Bearer <token>". The scheme is case-insensitive.
func parseBearer(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", authDomain.ErrMissingCredential
	}

	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", authDomain.ErrTokenMalformed
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", authDomain.ErrTokenMalformed
	}
	return token, nil
}

// NewAuthorizationGuard creates an AuthorizationGuard.
func NewAuthorizationGuard(issuer TokenIssuer, versions VersionStore) AuthorizationGuard {
	return &authorizationGuard{
		issuer:   issuer,
		versions: versions,
	}
}
