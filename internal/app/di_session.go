package app

import (
	"sync"

	sessionService "github.com/allisson/licensegate/internal/session/service"
	sessionUseCase "github.com/allisson/licensegate/internal/session/usecase"
)

// sessionComponents holds lazily initialized session vertical dependencies.
type sessionComponents struct {
	scraperInit    sync.Once
	scraper        sessionService.Scraper
	useCaseInit    sync.Once
	sessionUseCase sessionUseCase.SessionUseCase
}

// Scraper returns the Steadfast portal scraper.
func (c *Container) Scraper() sessionService.Scraper {
	c.session.scraperInit.Do(func() {
		c.session.scraper = sessionService.NewPortalScraper(
			c.config.SteadfastBaseURL,
			c.config.SteadfastTimeout,
			c.config.SessionTTL,
		)
	})
	return c.session.scraper
}

// SessionUseCase returns the portal session broker.
func (c *Container) SessionUseCase() sessionUseCase.SessionUseCase {
	c.session.useCaseInit.Do(func() {
		c.session.sessionUseCase = sessionUseCase.NewSessionUseCase(
			c.Scraper(),
			c.config.SteadfastEmail,
			c.config.SteadfastPassword,
			c.Logger(),
		)
	})
	return c.session.sessionUseCase
}
