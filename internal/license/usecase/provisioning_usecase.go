package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/licensegate/internal/database"
	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
)

// provisioningUseCase implements ProvisioningUseCase for the admin CLI surface.
type provisioningUseCase struct {
	licenseRepo LicenseRepository
	txManager   database.TxManager
}

// NewProvisioningUseCase creates a new ProvisioningUseCase.
func NewProvisioningUseCase(licenseRepo LicenseRepository, txManager database.TxManager) ProvisioningUseCase {
	return &provisioningUseCase{licenseRepo: licenseRepo, txManager: txManager}
}

// Create provisions a new license. When no key is supplied a UUID key is
// generated; new licenses start active with an empty domain set.
func (p *provisioningUseCase) Create(
	ctx context.Context,
	input *licenseDomain.CreateLicenseInput,
) (*licenseDomain.License, error) {
	key := input.Key
	if key == "" {
		key = uuid.NewString()
	}

	now := time.Now().UTC()
	license := &licenseDomain.License{
		ID:                 uuid.Must(uuid.NewV7()),
		Key:                key,
		Status:             licenseDomain.StatusActive,
		ExpiresAt:          input.ExpiresAt,
		ActivationLimit:    input.ActivationLimit,
		CurrentActivations: 0,
		ActivatedDomains:   []string{},
		AllowCourierAPI:    input.AllowCourierAPI,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := p.licenseRepo.Create(ctx, license); err != nil {
		return nil, err
	}

	return license, nil
}

// Update modifies the provisioning fields of an existing license. The read
// and write run in one transaction so concurrent admin edits cannot
// interleave.
func (p *provisioningUseCase) Update(
	ctx context.Context,
	licenseID uuid.UUID,
	input *licenseDomain.UpdateLicenseInput,
) (*licenseDomain.License, error) {
	var license *licenseDomain.License

	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		license, err = p.licenseRepo.Get(ctx, licenseID)
		if err != nil {
			return err
		}

		license.Status = input.Status
		license.ActivationLimit = input.ActivationLimit
		license.ExpiresAt = input.ExpiresAt
		license.AllowCourierAPI = input.AllowCourierAPI
		license.UpdatedAt = time.Now().UTC()

		return p.licenseRepo.Update(ctx, license)
	})
	if err != nil {
		return nil, err
	}

	return license, nil
}

// GetByKey retrieves a license by its opaque key.
func (p *provisioningUseCase) GetByKey(
	ctx context.Context,
	key string,
) (*licenseDomain.License, error) {
	return p.licenseRepo.GetByKey(ctx, key)
}
