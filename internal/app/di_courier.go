package app

import (
	"fmt"
	"sync"

	courierHTTP "github.com/allisson/licensegate/internal/courier/http"
	courierRepository "github.com/allisson/licensegate/internal/courier/repository"
	courierService "github.com/allisson/licensegate/internal/courier/service"
	courierUseCase "github.com/allisson/licensegate/internal/courier/usecase"
)

// courierComponents holds lazily initialized courier vertical dependencies.
type courierComponents struct {
	cursorRepositoryInit   sync.Once
	cursorRepository       courierService.CursorRepository
	auditLogRepositoryInit sync.Once
	auditLogRepository     courierUseCase.AuditLogRepository
	responseCacheInit      sync.Once
	responseCache          *courierService.ResponseCache
	rotatorInit            sync.Once
	rotator                *courierService.Rotator
	upstreamClientInit     sync.Once
	upstreamClient         courierService.UpstreamClient
	lookupUseCaseInit      sync.Once
	lookupUseCase          courierUseCase.LookupUseCase
	handlerInit            sync.Once
	handler                *courierHTTP.CourierHandler
}

// CursorRepository returns the rotation cursor repository based on database driver.
func (c *Container) CursorRepository() (courierService.CursorRepository, error) {
	var err error
	c.courier.cursorRepositoryInit.Do(func() {
		c.courier.cursorRepository, err = c.initCursorRepository()
		if err != nil {
			c.initErrors["cursorRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cursorRepository"]; exists {
		return nil, storedErr
	}
	return c.courier.cursorRepository, nil
}

// CourierAuditLogRepository returns the courier audit log repository based on
// database driver.
func (c *Container) CourierAuditLogRepository() (courierUseCase.AuditLogRepository, error) {
	var err error
	c.courier.auditLogRepositoryInit.Do(func() {
		c.courier.auditLogRepository, err = c.initCourierAuditLogRepository()
		if err != nil {
			c.initErrors["courierAuditLogRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["courierAuditLogRepository"]; exists {
		return nil, storedErr
	}
	return c.courier.auditLogRepository, nil
}

// ResponseCache returns the in-memory courier response cache.
func (c *Container) ResponseCache() *courierService.ResponseCache {
	c.courier.responseCacheInit.Do(func() {
		c.courier.responseCache = courierService.NewResponseCache()
	})
	return c.courier.responseCache
}

// Rotator returns the API key rotator.
func (c *Container) Rotator() (*courierService.Rotator, error) {
	var err error
	c.courier.rotatorInit.Do(func() {
		c.courier.rotator, err = c.initRotator()
		if err != nil {
			c.initErrors["rotator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rotator"]; exists {
		return nil, storedErr
	}
	return c.courier.rotator, nil
}

// UpstreamClient returns the courier aggregation API client.
func (c *Container) UpstreamClient() courierService.UpstreamClient {
	c.courier.upstreamClientInit.Do(func() {
		c.courier.upstreamClient = courierService.NewHoorinClient(
			c.config.HoorinBaseURL,
			c.config.HoorinTimeout,
		)
	})
	return c.courier.upstreamClient
}

// LookupUseCase returns the courier lookup use case.
func (c *Container) LookupUseCase() (courierUseCase.LookupUseCase, error) {
	var err error
	c.courier.lookupUseCaseInit.Do(func() {
		c.courier.lookupUseCase, err = c.initLookupUseCase()
		if err != nil {
			c.initErrors["lookupUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["lookupUseCase"]; exists {
		return nil, storedErr
	}
	return c.courier.lookupUseCase, nil
}

// CourierHandler returns the courier HTTP handler.
func (c *Container) CourierHandler() (*courierHTTP.CourierHandler, error) {
	var err error
	c.courier.handlerInit.Do(func() {
		c.courier.handler, err = c.initCourierHandler()
		if err != nil {
			c.initErrors["courierHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["courierHandler"]; exists {
		return nil, storedErr
	}
	return c.courier.handler, nil
}

// initCursorRepository creates the cursor repository for the configured driver.
func (c *Container) initCursorRepository() (courierService.CursorRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for cursor repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return courierRepository.NewMySQLCursorRepository(db), nil
	case "postgres":
		return courierRepository.NewPostgreSQLCursorRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCourierAuditLogRepository creates the audit log repository for the
// configured driver.
func (c *Container) initCourierAuditLogRepository() (courierUseCase.AuditLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for courier audit log repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return courierRepository.NewMySQLAuditLogRepository(db), nil
	case "postgres":
		return courierRepository.NewPostgreSQLAuditLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRotator creates the key rotator backed by the cursor repository.
func (c *Container) initRotator() (*courierService.Rotator, error) {
	cursorRepo, err := c.CursorRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get cursor repository for rotator: %w", err)
	}
	return courierService.NewRotator(cursorRepo, c.Logger()), nil
}

// initLookupUseCase creates the lookup use case wrapped with metrics.
func (c *Container) initLookupUseCase() (courierUseCase.LookupUseCase, error) {
	rotator, err := c.Rotator()
	if err != nil {
		return nil, fmt.Errorf("failed to get rotator for lookup use case: %w", err)
	}

	auditRepo, err := c.CourierAuditLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log repository for lookup use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for lookup use case: %w", err)
	}

	useCase := courierUseCase.NewLookupUseCase(
		c.ResponseCache(),
		rotator,
		c.UpstreamClient(),
		auditRepo,
		c.config.HoorinKeyPool(),
		c.config.CourierCacheTTL,
		c.Logger(),
	)
	return courierUseCase.NewLookupUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initCourierHandler creates the courier HTTP handler.
func (c *Container) initCourierHandler() (*courierHTTP.CourierHandler, error) {
	lookupUseCase, err := c.LookupUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get lookup use case for courier handler: %w", err)
	}
	return courierHTTP.NewCourierHandler(lookupUseCase, c.Logger()), nil
}
