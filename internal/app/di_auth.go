package app

import (
	"fmt"

	authHTTP "github.com/allisson/gatekeeper/internal/auth/http"
	authRepository "github.com/allisson/gatekeeper/internal/auth/repository"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	"github.com/allisson/gatekeeper/internal/config"
)

// VersionRepository returns the version stamp repository selected by VERSION_STORE_DRIVER.
func (c *Container) VersionRepository() (authService.VersionRepository, error) {
	var err error
	c.versionRepositoryInit.Do(func() {
		c.versionRepository, err = c.initVersionRepository()
		if err != nil {
			c.initErrors["versionRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["versionRepository"]; exists {
		return nil, storedErr
	}
	return c.versionRepository, nil
}

// VersionStore returns the version store shared by the session use case and the guard.
func (c *Container) VersionStore() (*authService.VersionStore, error) {
	var err error
	c.versionStoreInit.Do(func() {
		var repo authService.VersionRepository
		repo, err = c.VersionRepository()
		if err != nil {
			err = fmt.Errorf("failed to get version repository for version store: %w", err)
			c.initErrors["versionStore"] = err
			return
		}
		c.versionStore = authService.NewVersionStore(repo)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["versionStore"]; exists {
		return nil, storedErr
	}
	return c.versionStore, nil
}

// FingerprintHasher returns the refresh token fingerprint hasher.
func (c *Container) FingerprintHasher() (authService.FingerprintHasher, error) {
	var err error
	c.fingerprintHasherInit.Do(func() {
		c.fingerprintHasher, err = authService.NewFingerprintHasher(
			c.config.FingerprintAlgorithm,
			c.config.BcryptCost,
		)
		if err != nil {
			c.initErrors["fingerprintHasher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fingerprintHasher"]; exists {
		return nil, storedErr
	}
	return c.fingerprintHasher, nil
}

// CredentialIssuer returns the access and refresh token issuer.
func (c *Container) CredentialIssuer() (*authService.CredentialIssuer, error) {
	var err error
	c.credentialIssuerInit.Do(func() {
		c.credentialIssuer, err = authService.NewCredentialIssuer(authService.IssuerConfig{
			AccessSecret:  c.config.AccessTokenSecret,
			RefreshSecret: c.config.RefreshTokenSecret,
			AccessTTL:     c.config.AccessTokenTTL,
			RefreshTTL:    c.config.RefreshTokenTTL,
			Issuer:        c.config.TokenIssuer,
		})
		if err != nil {
			err = fmt.Errorf("failed to create credential issuer: %w", err)
			c.initErrors["credentialIssuer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialIssuer"]; exists {
		return nil, storedErr
	}
	return c.credentialIssuer, nil
}

// PrincipalLocker returns the process-wide per-principal lock.
func (c *Container) PrincipalLocker() *authService.PrincipalLocker {
	c.principalLockerInit.Do(func() {
		c.principalLocker = authService.NewPrincipalLocker()
	})
	return c.principalLocker
}

// SessionUseCase returns the login/refresh/logout use case.
func (c *Container) SessionUseCase() (authUseCase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// AuthorizationGuard returns the guard protecting authenticated routes.
func (c *Container) AuthorizationGuard() (authUseCase.AuthorizationGuard, error) {
	var err error
	c.guardInit.Do(func() {
		c.authorizationGuard, err = c.initAuthorizationGuard()
		if err != nil {
			c.initErrors["authorizationGuard"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authorizationGuard"]; exists {
		return nil, storedErr
	}
	return c.authorizationGuard, nil
}

// SessionHandler returns the HTTP handler for login, refresh and logout.
func (c *Container) SessionHandler() (*authHTTP.SessionHandler, error) {
	var err error
	c.sessionHandlerInit.Do(func() {
		var useCase authUseCase.SessionUseCase
		useCase, err = c.SessionUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get session use case for session handler: %w", err)
			c.initErrors["sessionHandler"] = err
			return
		}
		c.sessionHandler = authHTTP.NewSessionHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionHandler"]; exists {
		return nil, storedErr
	}
	return c.sessionHandler, nil
}

// initVersionRepository selects the version stamp backend.
func (c *Container) initVersionRepository() (authService.VersionRepository, error) {
	switch c.config.VersionStoreDriver {
	case config.VersionStoreRedis:
		return authRepository.NewRedisVersionRepository(c.RedisClient(), c.config.RedisKeyPrefix), nil
	case config.VersionStoreMemory:
		c.Logger().Warn("in-memory version store: sessions do not survive restarts")
		return authRepository.NewMemoryVersionRepository(), nil
	case config.VersionStoreSQL, "":
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for version repository: %w", err)
		}
		switch c.config.DBDriver {
		case "mysql":
			return authRepository.NewMySQLVersionRepository(db), nil
		case "postgres":
			return authRepository.NewPostgreSQLVersionRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	default:
		return nil, fmt.Errorf("unsupported version store driver: %s", c.config.VersionStoreDriver)
	}
}

// initSessionUseCase creates the session use case with all its dependencies.
func (c *Container) initSessionUseCase() (authUseCase.SessionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for session use case: %w", err)
	}

	adminRepository, err := c.AdminRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin repository for session use case: %w", err)
	}

	versionStore, err := c.VersionStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get version store for session use case: %w", err)
	}

	issuer, err := c.CredentialIssuer()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential issuer for session use case: %w", err)
	}

	cipher, err := c.CredentialCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential cipher for session use case: %w", err)
	}

	hasher, err := c.FingerprintHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get fingerprint hasher for session use case: %w", err)
	}

	baseUseCase := authUseCase.NewSessionUseCase(
		txManager,
		adminRepository,
		versionStore,
		issuer,
		cipher,
		hasher,
		c.PrincipalLocker(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
		}
		return authUseCase.NewSessionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAuthorizationGuard creates the guard with all its dependencies.
func (c *Container) initAuthorizationGuard() (authUseCase.AuthorizationGuard, error) {
	issuer, err := c.CredentialIssuer()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential issuer for authorization guard: %w", err)
	}

	versionStore, err := c.VersionStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get version store for authorization guard: %w", err)
	}

	baseGuard := authUseCase.NewAuthorizationGuard(issuer, versionStore)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for authorization guard: %w", err)
		}
		return authUseCase.NewAuthorizationGuardWithMetrics(baseGuard, businessMetrics), nil
	}

	return baseGuard, nil
}
