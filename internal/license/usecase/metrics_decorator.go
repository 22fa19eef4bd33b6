package usecase

import (
	"context"
	"time"

	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
	"github.com/allisson/licensegate/internal/metrics"
)

// activationUseCaseWithMetrics decorates ActivationUseCase with metrics instrumentation.
type activationUseCaseWithMetrics struct {
	next    ActivationUseCase
	metrics metrics.BusinessMetrics
}

// NewActivationUseCaseWithMetrics wraps an ActivationUseCase with metrics recording.
func NewActivationUseCaseWithMetrics(useCase ActivationUseCase, m metrics.BusinessMetrics) ActivationUseCase {
	return &activationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Activate records metrics for activation operations.
func (a *activationUseCaseWithMetrics) Activate(
	ctx context.Context,
	key, domain string,
) (*licenseDomain.ActivationResult, error) {
	start := time.Now()
	result, err := a.next.Activate(ctx, key, domain)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "license", "activate", status)
	a.metrics.RecordDuration(ctx, "license", "activate", time.Since(start), status)

	return result, err
}

// Deactivate records metrics for deactivation operations.
func (a *activationUseCaseWithMetrics) Deactivate(ctx context.Context, key, domain string) error {
	start := time.Now()
	err := a.next.Deactivate(ctx, key, domain)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "license", "deactivate", status)
	a.metrics.RecordDuration(ctx, "license", "deactivate", time.Since(start), status)

	return err
}

// CheckCourierPermission records metrics for permission checks.
func (a *activationUseCaseWithMetrics) CheckCourierPermission(
	ctx context.Context,
	key string,
) (*licenseDomain.License, error) {
	start := time.Now()
	license, err := a.next.CheckCourierPermission(ctx, key)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "license", "check_courier_permission", status)
	a.metrics.RecordDuration(ctx, "license", "check_courier_permission", time.Since(start), status)

	return license, err
}
