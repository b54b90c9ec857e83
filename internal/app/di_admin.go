package app

import (
	"fmt"

	adminHTTP "github.com/allisson/gatekeeper/internal/admin/http"
	adminRepository "github.com/allisson/gatekeeper/internal/admin/repository"
	adminUseCase "github.com/allisson/gatekeeper/internal/admin/usecase"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
)

// AdminStore is the admin persistence shared by the admin and session use cases.
type AdminStore interface {
	adminUseCase.AdminRepository
	authUseCase.AdminRepository
}

// AdminRepository returns the admin repository based on database driver.
func (c *Container) AdminRepository() (AdminStore, error) {
	var err error
	c.adminRepositoryInit.Do(func() {
		c.adminRepository, err = c.initAdminRepository()
		if err != nil {
			c.initErrors["adminRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["adminRepository"]; exists {
		return nil, storedErr
	}
	return c.adminRepository, nil
}

// AdminUseCase returns the admin management use case.
func (c *Container) AdminUseCase() (adminUseCase.UseCase, error) {
	var err error
	c.adminUseCaseInit.Do(func() {
		c.adminUseCase, err = c.initAdminUseCase()
		if err != nil {
			c.initErrors["adminUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["adminUseCase"]; exists {
		return nil, storedErr
	}
	return c.adminUseCase, nil
}

// AdminHandler returns the HTTP handler for admin management operations.
func (c *Container) AdminHandler() (*adminHTTP.AdminHandler, error) {
	var err error
	c.adminHandlerInit.Do(func() {
		var useCase adminUseCase.UseCase
		useCase, err = c.AdminUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get admin use case for admin handler: %w", err)
			c.initErrors["adminHandler"] = err
			return
		}
		c.adminHandler = adminHTTP.NewAdminHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["adminHandler"]; exists {
		return nil, storedErr
	}
	return c.adminHandler, nil
}

func (c *Container) initAdminRepository() (AdminStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for admin repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return adminRepository.NewMySQLAdminRepository(db), nil
	case "postgres":
		return adminRepository.NewPostgreSQLAdminRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAdminUseCase creates the admin use case. Session revocation goes through the
// session use case so that deletes and password changes supersede outstanding tokens,
// and both share the principal locker with login.
func (c *Container) initAdminUseCase() (adminUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for admin use case: %w", err)
	}

	repo, err := c.AdminRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin repository for admin use case: %w", err)
	}

	cipher, err := c.CredentialCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential cipher for admin use case: %w", err)
	}

	sessions, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for admin use case: %w", err)
	}

	baseUseCase := adminUseCase.NewAdminUseCase(txManager, repo, cipher, sessions, c.PrincipalLocker())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for admin use case: %w", err)
		}
		return adminUseCase.NewAdminUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
