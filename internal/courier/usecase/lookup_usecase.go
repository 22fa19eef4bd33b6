package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	courierDomain "github.com/allisson/licensegate/internal/courier/domain"
	"github.com/allisson/licensegate/internal/courier/service"
)

// auditTimeout bounds the detached audit write so a slow store cannot leak
// goroutines indefinitely.
const auditTimeout = 5 * time.Second

// fetchResult is what one collapsed upstream flight produces.
type fetchResult struct {
	payload []byte
	latency time.Duration
}

// lookupUseCase implements LookupUseCase.
type lookupUseCase struct {
	cache     *service.ResponseCache
	rotator   *service.Rotator
	client    service.UpstreamClient
	auditRepo AuditLogRepository
	keyPool   []string
	cacheTTL  time.Duration
	logger    *slog.Logger
	group     singleflight.Group
}

// NewLookupUseCase creates the courier aggregator. keyPool is the ordered
// upstream credential pool; cacheTTL governs how long raw responses are
// served from cache.
func NewLookupUseCase(
	cache *service.ResponseCache,
	rotator *service.Rotator,
	client service.UpstreamClient,
	auditRepo AuditLogRepository,
	keyPool []string,
	cacheTTL time.Duration,
	logger *slog.Logger,
) LookupUseCase {
	return &lookupUseCase{
		cache:     cache,
		rotator:   rotator,
		client:    client,
		auditRepo: auditRepo,
		keyPool:   keyPool,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Lookup serves a search term from cache or dispatches one upstream call.
// Concurrent misses for the same cache key collapse into a single flight so
// a burst of identical queries consumes one credential rotation, not many.
func (l *lookupUseCase) Lookup(
	ctx context.Context,
	licenseKey, searchTerm string,
) (*LookupOutput, error) {
	cacheKey := service.CacheKey(searchTerm)

	if payload, ok := l.cache.Get(cacheKey); ok {
		return &LookupOutput{
			Payload:     payload,
			CacheStatus: CacheStatusHit,
		}, nil
	}

	result, err, _ := l.group.Do(cacheKey, func() (any, error) {
		return l.fetch(ctx, licenseKey, searchTerm, cacheKey)
	})
	if err != nil {
		return nil, err
	}

	fetched := result.(*fetchResult)
	return &LookupOutput{
		Payload:         fetched.payload,
		CacheStatus:     CacheStatusMiss,
		UpstreamLatency: fetched.latency,
	}, nil
}

// fetch performs one upstream dispatch: credential rotation, the bounded
// call, the cache write and the detached audit record.
func (l *lookupUseCase) fetch(
	ctx context.Context,
	licenseKey, searchTerm, cacheKey string,
) (*fetchResult, error) {
	if len(l.keyPool) == 0 {
		return nil, courierDomain.ErrNoAPIKeysConfigured
	}

	apiKey := l.rotator.Next(ctx, l.keyPool)

	start := time.Now()
	payload, err := l.client.Lookup(ctx, searchTerm, apiKey)
	latency := time.Since(start)
	if err != nil {
		return nil, err
	}

	// The raw body is cached, never the decorated response.
	l.cache.Put(cacheKey, payload, l.cacheTTL)

	l.recordAudit(licenseKey, apiKey, searchTerm)

	l.logger.Info("courier lookup dispatched",
		slog.String("key_suffix", courierDomain.KeySuffix(apiKey)),
		slog.Duration("upstream_latency", latency),
	)

	return &fetchResult{payload: payload, latency: latency}, nil
}

// recordAudit appends the usage record asynchronously. The context is
// detached because a client disconnect must not abort the write, and any
// failure is logged and swallowed so a successful lookup never fails on a
// non-critical side effect.
func (l *lookupUseCase) recordAudit(licenseKey, apiKey, searchTerm string) {
	log := &courierDomain.AuditLog{
		ID:         uuid.Must(uuid.NewV7()),
		LicenseKey: licenseKey,
		KeySuffix:  courierDomain.KeySuffix(apiKey),
		SearchTerm: searchTerm,
		CreatedAt:  time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		if err := l.auditRepo.Create(ctx, log); err != nil {
			l.logger.Error("failed to record courier audit log",
				slog.String("key_suffix", log.KeySuffix),
				slog.Any("error", err),
			)
		}
	}()
}
