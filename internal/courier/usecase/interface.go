// Package usecase orchestrates courier lookups: cache consultation,
// credential rotation, the upstream call and the audit trail.
package usecase

import (
	"context"
	"time"

	courierDomain "github.com/allisson/licensegate/internal/courier/domain"
)

// CacheStatus marks whether a lookup was served from cache.
type CacheStatus string

// Cache status markers surfaced to the client.
const (
	CacheStatusHit  CacheStatus = "HIT"
	CacheStatusMiss CacheStatus = "MISS"
)

// LookupOutput is the result of one courier lookup. Payload holds the raw
// upstream body exactly as cached; UpstreamLatency is zero on a cache hit.
type LookupOutput struct {
	Payload         []byte
	CacheStatus     CacheStatus
	UpstreamLatency time.Duration
}

// AuditLogRepository persists append-only courier usage records.
type AuditLogRepository interface {
	// Create appends one audit record.
	Create(ctx context.Context, log *courierDomain.AuditLog) error
}

// LookupUseCase is the courier aggregator. The license key identifies the
// caller for the audit trail; permission checks happen before this layer.
type LookupUseCase interface {
	// Lookup resolves a search term against the upstream aggregation API,
	// serving from cache when possible. Returns ErrNoAPIKeysConfigured when
	// the credential pool is empty, ErrUpstreamUnavailable on transport
	// failure and an UpstreamStatusError on a non-2xx upstream answer.
	Lookup(ctx context.Context, licenseKey, searchTerm string) (*LookupOutput, error)
}
