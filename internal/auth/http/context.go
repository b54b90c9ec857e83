// Package http provides the HTTP surface of the credential lifecycle: login, refresh and
// logout handlers, the role guard middleware and IP rate limiting of unauthenticated routes.
package http

import (
	"context"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// identityKey is a context key type for storing authenticated identities.
type identityKey struct{}

// WithIdentity stores an authenticated identity in the context.
// Called by RequireRoles after a successful authorization check.
func WithIdentity(ctx context.Context, identity *authDomain.AuthenticatedIdentity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity retrieves the authenticated identity from the context.
// Returns (identity, true) if present, or (nil, false) if no identity was set.
func GetIdentity(ctx context.Context) (*authDomain.AuthenticatedIdentity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*authDomain.AuthenticatedIdentity)
	return identity, ok
}
