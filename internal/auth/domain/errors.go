package domain

import (
	"github.com/allisson/gatekeeper/internal/errors"
)

// Authentication and authorization errors. Every credential failure is reported as
// unauthorized with a distinct code; handlers never learn more than the code.
var (
	// ErrMissingCredential indicates no bearer token was supplied.
	ErrMissingCredential = errors.NewCoded(
		errors.ErrUnauthorized, "missing_credential", "bearer token not provided",
	)

	// ErrTokenMalformed indicates a bad signature, structure, class or authorization scheme.
	ErrTokenMalformed = errors.NewCoded(
		errors.ErrUnauthorized, "token_malformed", "token is invalid",
	)

	// ErrTokenExpired indicates the token is past its declared expiry.
	ErrTokenExpired = errors.NewCoded(
		errors.ErrUnauthorized, "token_expired", "token has expired",
	)

	// ErrCredentialRevoked indicates a structurally valid token whose version stamp has
	// been superseded.
	ErrCredentialRevoked = errors.NewCoded(
		errors.ErrUnauthorized, "credential_revoked", "token has been invalidated",
	)

	// ErrForbidden indicates the verified role is not allowed on the route.
	ErrForbidden = errors.NewCoded(
		errors.ErrUnauthorized, "forbidden", "role is not allowed to access this resource",
	)

	// ErrWrongSecret indicates the login secret does not match.
	ErrWrongSecret = errors.NewCoded(
		errors.ErrUnauthorized, "wrong_secret", "wrong password",
	)

	// ErrInvalidSecretFormat indicates the stored secret could not be decrypted.
	ErrInvalidSecretFormat = errors.NewCoded(
		errors.ErrUnauthorized, "invalid_secret_format", "stored password cannot be verified",
	)

	// ErrRefreshMismatch indicates the refresh token is not the one last issued.
	ErrRefreshMismatch = errors.NewCoded(
		errors.ErrUnauthorized, "refresh_mismatch", "refresh token does not match",
	)

	// ErrVersionNotFound is returned by version repositories for principals without a
	// stored stamp. It never leaves the service layer.
	ErrVersionNotFound = errors.Wrap(errors.ErrNotFound, "version not found")
)
