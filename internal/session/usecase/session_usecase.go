// Package usecase implements the session broker: cached reuse of the portal
// session credential with TTL-based refresh.
package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	sessionDomain "github.com/allisson/licensegate/internal/session/domain"
	sessionService "github.com/allisson/licensegate/internal/session/service"
)

// SessionUseCase is the session broker for the cookie-only courier portal.
type SessionUseCase interface {
	// GetSession returns an unexpired session credential, acquiring a fresh
	// one through the scraper when the cached credential is absent or past
	// its TTL. Fails with an AcquisitionError carrying the stage-specific
	// reason when acquisition fails.
	GetSession(ctx context.Context) (*sessionDomain.Credential, error)
}

// sessionUseCase implements SessionUseCase with a single mutex-guarded
// cached credential. Concurrent callers during a refresh wait for one
// acquisition rather than each logging in.
type sessionUseCase struct {
	scraper  sessionService.Scraper
	email    string
	password string
	logger   *slog.Logger
	now      func() time.Time

	mu         sync.Mutex
	credential *sessionDomain.Credential
}

// NewSessionUseCase creates the session broker. email and password are the
// portal credentials from configuration; blank values fail every GetSession
// with ReasonMissingCredentials.
func NewSessionUseCase(
	scraper sessionService.Scraper,
	email, password string,
	logger *slog.Logger,
) SessionUseCase {
	return &sessionUseCase{
		scraper:  scraper,
		email:    email,
		password: password,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetSession returns the cached credential or acquires a fresh one.
func (s *sessionUseCase) GetSession(ctx context.Context) (*sessionDomain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.credential != nil && !s.credential.Expired(s.now()) {
		return s.credential, nil
	}

	if s.email == "" || s.password == "" {
		return nil, sessionDomain.NewAcquisitionError(sessionDomain.ReasonMissingCredentials, nil)
	}

	credential, err := s.scraper.Login(ctx, s.email, s.password)
	if err != nil {
		return nil, err
	}

	s.credential = credential

	s.logger.Info("portal session acquired",
		slog.Time("expires_at", credential.ExpiresAt),
	)

	return credential, nil
}
