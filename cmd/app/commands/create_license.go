package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
	licenseUseCase "github.com/allisson/licensegate/internal/license/usecase"
)

// RunCreateLicense provisions a new license. When key is empty a key is
// generated. Outputs the created license in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateLicense(
	ctx context.Context,
	provisioningUseCase licenseUseCase.ProvisioningUseCase,
	logger *slog.Logger,
	writer io.Writer,
	key string,
	limit int,
	expiresInDays int,
	allowCourier bool,
	format string,
) error {
	if limit <= 0 {
		return fmt.Errorf("activation limit must be positive")
	}

	input := &licenseDomain.CreateLicenseInput{
		Key:             key,
		ActivationLimit: limit,
		ExpiresAt:       expiresAtFromDays(expiresInDays),
		AllowCourierAPI: allowCourier,
	}

	license, err := provisioningUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create license: %w", err)
	}

	outputLicense(license, format, writer)

	logger.Info("license created successfully",
		slog.String("license_id", license.ID.String()),
		slog.Int("activation_limit", license.ActivationLimit),
		slog.Bool("allow_courier_api", license.AllowCourierAPI),
	)

	return nil
}
