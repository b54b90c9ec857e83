package dto

import (
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// LoginResponse contains the token pair of a new session.
type LoginResponse struct {
	Username     string `json:"username"`
	AccessToken  string `json:"access_token"`  //nolint:gosec // returned to the authenticated caller
	RefreshToken string `json:"refresh_token"` //nolint:gosec // returned to the authenticated caller
}

// MapTokenPairToResponse converts a token pair to an API response.
func MapTokenPairToResponse(pair *authDomain.TokenPair) LoginResponse {
	return LoginResponse{
		Username:     pair.Username,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

// RefreshResponse contains a freshly minted access token.
type RefreshResponse struct {
	AccessToken string `json:"access_token"` //nolint:gosec // returned to the authenticated caller
}
