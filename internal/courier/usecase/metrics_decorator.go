package usecase

import (
	"context"
	"time"

	"github.com/allisson/licensegate/internal/metrics"
)

// lookupUseCaseWithMetrics decorates LookupUseCase with metrics instrumentation.
type lookupUseCaseWithMetrics struct {
	next    LookupUseCase
	metrics metrics.BusinessMetrics
}

// NewLookupUseCaseWithMetrics wraps a LookupUseCase with metrics recording.
// The status label distinguishes cache hits and misses from errors.
func NewLookupUseCaseWithMetrics(useCase LookupUseCase, m metrics.BusinessMetrics) LookupUseCase {
	return &lookupUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Lookup records metrics for courier lookups.
func (l *lookupUseCaseWithMetrics) Lookup(
	ctx context.Context,
	licenseKey, searchTerm string,
) (*LookupOutput, error) {
	start := time.Now()
	output, err := l.next.Lookup(ctx, licenseKey, searchTerm)

	status := "error"
	if err == nil {
		switch output.CacheStatus {
		case CacheStatusHit:
			status = "hit"
		case CacheStatusMiss:
			status = "miss"
		}
	}

	l.metrics.RecordOperation(ctx, "courier", "lookup", status)
	l.metrics.RecordDuration(ctx, "courier", "lookup", time.Since(start), status)

	return output, err
}
