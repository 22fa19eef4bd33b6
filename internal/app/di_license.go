package app

import (
	"fmt"
	"sync"

	licenseHTTP "github.com/allisson/licensegate/internal/license/http"
	licenseRepository "github.com/allisson/licensegate/internal/license/repository"
	licenseUseCase "github.com/allisson/licensegate/internal/license/usecase"
)

// licenseComponents holds lazily initialized license vertical dependencies.
type licenseComponents struct {
	repositoryInit          sync.Once
	repository              licenseUseCase.LicenseRepository
	activationUseCaseInit   sync.Once
	activationUseCase       licenseUseCase.ActivationUseCase
	provisioningUseCaseInit sync.Once
	provisioningUseCase     licenseUseCase.ProvisioningUseCase
	handlerInit             sync.Once
	handler                 *licenseHTTP.LicenseHandler
}

// LicenseRepository returns the license repository based on database driver.
func (c *Container) LicenseRepository() (licenseUseCase.LicenseRepository, error) {
	var err error
	c.license.repositoryInit.Do(func() {
		c.license.repository, err = c.initLicenseRepository()
		if err != nil {
			c.initErrors["licenseRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["licenseRepository"]; exists {
		return nil, storedErr
	}
	return c.license.repository, nil
}

// ActivationUseCase returns the license activation use case.
func (c *Container) ActivationUseCase() (licenseUseCase.ActivationUseCase, error) {
	var err error
	c.license.activationUseCaseInit.Do(func() {
		c.license.activationUseCase, err = c.initActivationUseCase()
		if err != nil {
			c.initErrors["activationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["activationUseCase"]; exists {
		return nil, storedErr
	}
	return c.license.activationUseCase, nil
}

// ProvisioningUseCase returns the license provisioning use case.
func (c *Container) ProvisioningUseCase() (licenseUseCase.ProvisioningUseCase, error) {
	var err error
	c.license.provisioningUseCaseInit.Do(func() {
		c.license.provisioningUseCase, err = c.initProvisioningUseCase()
		if err != nil {
			c.initErrors["provisioningUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["provisioningUseCase"]; exists {
		return nil, storedErr
	}
	return c.license.provisioningUseCase, nil
}

// LicenseHandler returns the license HTTP handler.
func (c *Container) LicenseHandler() (*licenseHTTP.LicenseHandler, error) {
	var err error
	c.license.handlerInit.Do(func() {
		c.license.handler, err = c.initLicenseHandler()
		if err != nil {
			c.initErrors["licenseHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["licenseHandler"]; exists {
		return nil, storedErr
	}
	return c.license.handler, nil
}

// initLicenseRepository creates the license repository for the configured driver.
func (c *Container) initLicenseRepository() (licenseUseCase.LicenseRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for license repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return licenseRepository.NewMySQLLicenseRepository(db), nil
	case "postgres":
		return licenseRepository.NewPostgreSQLLicenseRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initActivationUseCase creates the activation use case wrapped with metrics.
func (c *Container) initActivationUseCase() (licenseUseCase.ActivationUseCase, error) {
	repo, err := c.LicenseRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get license repository for activation use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for activation use case: %w", err)
	}

	useCase := licenseUseCase.NewActivationUseCase(repo, c.Logger())
	return licenseUseCase.NewActivationUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initProvisioningUseCase creates the provisioning use case.
func (c *Container) initProvisioningUseCase() (licenseUseCase.ProvisioningUseCase, error) {
	repo, err := c.LicenseRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get license repository for provisioning use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for provisioning use case: %w", err)
	}

	return licenseUseCase.NewProvisioningUseCase(repo, txManager), nil
}

// initLicenseHandler creates the license HTTP handler.
func (c *Container) initLicenseHandler() (*licenseHTTP.LicenseHandler, error) {
	activationUseCase, err := c.ActivationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get activation use case for license handler: %w", err)
	}
	return licenseHTTP.NewLicenseHandler(activationUseCase, c.Logger()), nil
}
