// Package usecase implements business logic orchestration for license activation.
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/allisson/licensegate/internal/errors"
	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
)

// activationUseCase implements ActivationUseCase.
type activationUseCase struct {
	licenseRepo LicenseRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewActivationUseCase creates a new ActivationUseCase with the provided dependencies.
func NewActivationUseCase(licenseRepo LicenseRepository, logger *slog.Logger) ActivationUseCase {
	return &activationUseCase{
		licenseRepo: licenseRepo,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Activate binds a domain to a license. See ActivationUseCase for the contract.
func (a *activationUseCase) Activate(
	ctx context.Context,
	key, domain string,
) (*licenseDomain.ActivationResult, error) {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(domain) == "" {
		return nil, licenseDomain.ErrMissingParameter
	}

	license, err := a.readValidated(ctx, key)
	if err != nil {
		return nil, err
	}

	// Snapshot the timestamp observed at read time: it keys the conditional write.
	observedUpdatedAt := license.UpdatedAt

	alreadyBound, err := license.BindDomain(domain)
	if err != nil {
		return nil, err
	}

	result := &licenseDomain.ActivationResult{
		AlreadyActivated: alreadyBound,
		ExpiresAt:        license.ExpiresAt,
	}

	// Idempotent rebind: nothing changed, nothing to persist.
	if alreadyBound {
		return result, nil
	}

	license.UpdatedAt = a.now()
	if err := a.licenseRepo.UpdateActivationState(ctx, license, observedUpdatedAt); err != nil {
		return nil, err
	}

	a.logger.Info("license activated",
		slog.String("license_id", license.ID.String()),
		slog.String("domain", licenseDomain.NormalizeDomain(domain)),
		slog.Int("current_activations", license.CurrentActivations),
	)

	return result, nil
}

// Deactivate removes a domain binding. See ActivationUseCase for the contract.
func (a *activationUseCase) Deactivate(ctx context.Context, key, domain string) error {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(domain) == "" {
		return licenseDomain.ErrMissingParameter
	}

	license, err := a.licenseRepo.GetByKey(ctx, key)
	if err != nil {
		return err
	}

	observedUpdatedAt := license.UpdatedAt

	if err := license.UnbindDomain(domain); err != nil {
		return err
	}

	license.UpdatedAt = a.now()
	if err := a.licenseRepo.UpdateActivationState(ctx, license, observedUpdatedAt); err != nil {
		return err
	}

	a.logger.Info("license deactivated",
		slog.String("license_id", license.ID.String()),
		slog.String("domain", licenseDomain.NormalizeDomain(domain)),
		slog.Int("current_activations", license.CurrentActivations),
	)

	return nil
}

// CheckCourierPermission verifies courier endpoint access for a license key.
// Pure predicate apart from the lazy-expiry write.
func (a *activationUseCase) CheckCourierPermission(
	ctx context.Context,
	key string,
) (*licenseDomain.License, error) {
	if strings.TrimSpace(key) == "" {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "missing license key")
	}

	license, err := a.readValidated(ctx, key)
	if err != nil {
		return nil, err
	}

	if !license.AllowCourierAPI {
		return nil, licenseDomain.ErrCourierNotAllowed
	}

	return license, nil
}

// readValidated loads a license by key and runs the shared validity checks:
// lazy expiry at the top of the read path, then the status gate. The expiry
// write failing must not grant access, so the read outcome wins and the write
// failure is only logged.
func (a *activationUseCase) readValidated(
	ctx context.Context,
	key string,
) (*licenseDomain.License, error) {
	license, err := a.licenseRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	now := a.now()
	if license.ExpireIfDue(now) {
		if err := a.licenseRepo.MarkExpired(ctx, license.ID, now); err != nil {
			a.logger.Error("failed to persist lazy expiry",
				slog.String("license_id", license.ID.String()),
				slog.Any("error", err),
			)
		}
		return nil, licenseDomain.ErrKeyExpired
	}

	switch license.Status {
	case licenseDomain.StatusActive:
		return license, nil
	case licenseDomain.StatusExpired:
		return nil, licenseDomain.ErrKeyExpired
	default:
		return nil, licenseDomain.ErrKeyNotActive
	}
}
