package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// IssuerConfig configures a CredentialIssuer.
type IssuerConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// Issuer is written to the iss claim and required on verification when non-empty.
	Issuer string
}

// IssuerOption customizes a CredentialIssuer.
type IssuerOption func(*CredentialIssuer)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *CredentialIssuer) {
		i.now = now
	}
}

// credentialClaims is the JWT payload of both credential classes.
type credentialClaims struct {
	Role    authDomain.Role            `json:"role"`
	Version string                     `json:"ver"`
	Class   authDomain.CredentialClass `json:"typ"`
	jwt.RegisteredClaims
}

// CredentialIssuer mints and verifies HS256 signed access and refresh credentials.
// Each class has its own key, so a refresh token never verifies as an access token
// and the other way around.
type CredentialIssuer struct {
	keys   map[authDomain.CredentialClass][]byte
	ttls   map[authDomain.CredentialClass]time.Duration
	issuer string
	now    func() time.Time
}

// NewCredentialIssuer validates cfg and creates a CredentialIssuer.
func NewCredentialIssuer(cfg IssuerConfig, opts ...IssuerOption) (*CredentialIssuer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("access and refresh signing secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh signing secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	issuer := &CredentialIssuer{
		keys: map[authDomain.CredentialClass][]byte{
			authDomain.AccessClass:  []byte(cfg.AccessSecret),
			authDomain.RefreshClass: []byte(cfg.RefreshSecret),
		},
		ttls: map[authDomain.CredentialClass]time.Duration{
			authDomain.AccessClass:  cfg.AccessTTL,
			authDomain.RefreshClass: cfg.RefreshTTL,
		},
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

// IssueAccessToken mints an access credential bound to accessVersion.
func (i *CredentialIssuer) IssueAccessToken(
	principalID string,
	role authDomain.Role,
	accessVersion string,
) (string, error) {
	return i.issue(authDomain.AccessClass, principalID, role, accessVersion)
}

// IssueRefreshToken mints a refresh credential bound to refreshVersion.
func (i *CredentialIssuer) IssueRefreshToken(
	principalID string,
	role authDomain.Role,
	refreshVersion string,
) (string, error) {
	return i.issue(authDomain.RefreshClass, principalID, role, refreshVersion)
}

func (i *CredentialIssuer) issue(
	class authDomain.CredentialClass,
	principalID string,
	role authDomain.Role,
	version string,
) (string, error) {
	now := i.now()
	claims := credentialClaims{
		Role:    role,
		Version: version,
		Class:   class,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   principalID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttls[class])),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.keys[class])
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", class, err)
	}
	return signed, nil
}

// Verify checks signature, expiry and class of token using the key of class.
// Returns ErrTokenExpired past expiry and ErrTokenMalformed for every other failure.
func (i *CredentialIssuer) Verify(token string, class authDomain.CredentialClass) (*authDomain.Claims, error) {
	key, ok := i.keys[class]
	if !ok {
		return nil, authDomain.ErrTokenMalformed
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if i.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(i.issuer))
	}

	claims := &credentialClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, authDomain.ErrTokenExpired
		}
		return nil, authDomain.ErrTokenMalformed
	}

	if claims.Class != class || claims.Subject == "" || claims.Version == "" {
		return nil, authDomain.ErrTokenMalformed
	}

	return &authDomain.Claims{
		PrincipalID: claims.Subject,
		Role:        claims.Role,
		Version:     claims.Version,
		Class:       claims.Class,
	}, nil
}
