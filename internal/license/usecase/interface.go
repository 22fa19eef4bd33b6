// Package usecase defines business logic interfaces for license activation operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
)

// LicenseRepository defines persistence operations for license records.
// Implementations must support transaction-aware operations via context
// propagation and must provide at least single-row atomicity for
// UpdateActivationState (conditional update keyed by id + observed updated_at).
type LicenseRepository interface {
	// Create stores a new license in the repository.
	Create(ctx context.Context, license *licenseDomain.License) error

	// Get retrieves a license by ID. Returns ErrLicenseNotFound if not found.
	Get(ctx context.Context, licenseID uuid.UUID) (*licenseDomain.License, error)

	// GetByKey retrieves a license by its opaque key. Returns ErrLicenseNotFound
	// if not found.
	GetByKey(ctx context.Context, key string) (*licenseDomain.License, error)

	// Update modifies the provisioning fields of an existing license.
	Update(ctx context.Context, license *licenseDomain.License) error

	// UpdateActivationState persists the activation state with a conditional
	// update. Returns ErrConcurrentModification when the record changed since
	// it was read.
	UpdateActivationState(
		ctx context.Context,
		license *licenseDomain.License,
		expectedUpdatedAt time.Time,
	) error

	// MarkExpired flips a license to the expired status (lazy expiry side effect).
	MarkExpired(ctx context.Context, licenseID uuid.UUID, expiredAt time.Time) error
}

// ActivationUseCase is the license activation engine. It enforces license
// validity, domain binding and the activation-count limit. All errors are
// terminal for the current request: rejected writes are surfaced, never
// retried.
type ActivationUseCase interface {
	// Activate binds a domain to a license, consuming one activation slot.
	// Binding an already-bound domain succeeds idempotently without consuming
	// a slot. A read past the expiry timestamp flips the license to expired
	// as a side effect and fails with ErrKeyExpired.
	Activate(ctx context.Context, key, domain string) (*licenseDomain.ActivationResult, error)

	// Deactivate removes a domain binding, releasing its activation slot.
	// Returns ErrNotActivatedOnDomain when the domain was never bound.
	Deactivate(ctx context.Context, key, domain string) error

	// CheckCourierPermission verifies that the license may call the courier
	// lookup endpoint: the record must exist, be active, be unexpired (with
	// the same lazy-expiry side effect as Activate) and carry the courier
	// capability. Returns the license on success for downstream use.
	CheckCourierPermission(ctx context.Context, key string) (*licenseDomain.License, error)
}

// ProvisioningUseCase manages license records out-of-band (admin CLI surface).
type ProvisioningUseCase interface {
	// Create provisions a new license, generating a key when none is supplied.
	Create(ctx context.Context, input *licenseDomain.CreateLicenseInput) (*licenseDomain.License, error)

	// Update modifies the provisioning fields of an existing license.
	Update(ctx context.Context, licenseID uuid.UUID, input *licenseDomain.UpdateLicenseInput) (*licenseDomain.License, error)

	// GetByKey retrieves a license by its opaque key.
	GetByKey(ctx context.Context, key string) (*licenseDomain.License, error)
}
