package domain

// AuthenticatedIdentity is the result of a successful authorization check.
type AuthenticatedIdentity struct {
	PrincipalID    string
	Role           Role
	AccessVersion  string
	RefreshVersion string
}

// HasAnyRole reports whether the identity's role is in roles. An empty set admits everyone.
func (i *AuthenticatedIdentity) HasAnyRole(roles []Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if role == i.Role {
			return true
		}
	}
	return false
}

// Claims are the verified contents of an issued credential.
type Claims struct {
	PrincipalID string
	Role        Role
	Version     string
	Class       CredentialClass
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	Username     string
	AccessToken  string
	RefreshToken string
}

// AccessTokenOutput is returned by a successful refresh.
type AccessTokenOutput struct {
	AccessToken string
}
