// Package domain defines the versioned credential model: roles, credential classes,
// authenticated identities and the authentication error taxonomy.
package domain

// Role is the authorization role carried in every issued credential.
type Role string

const (
	// RoleAdmin grants access to administrative routes.
	RoleAdmin Role = "admin"

	// RoleUser is a verified principal without administrative rights.
	RoleUser Role = "user"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// CredentialClass distinguishes access from refresh credentials. Each class has its own
// signing key and its own version stamp per principal.
type CredentialClass string

const (
	// AccessClass is the short-lived credential presented on every request.
	AccessClass CredentialClass = "access"

	// RefreshClass is the long-lived credential exchanged for new access credentials.
	RefreshClass CredentialClass = "refresh"
)

// IsValid reports whether c is a known credential class.
func (c CredentialClass) IsValid() bool {
	return c == AccessClass || c == RefreshClass
}
