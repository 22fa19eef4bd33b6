package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
	licenseUseCase "github.com/allisson/licensegate/internal/license/usecase"
)

// RunUpdateLicense updates the provisioning fields of an existing license.
// Outputs the updated license in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunUpdateLicense(
	ctx context.Context,
	provisioningUseCase licenseUseCase.ProvisioningUseCase,
	logger *slog.Logger,
	writer io.Writer,
	id string,
	status string,
	limit int,
	expiresInDays int,
	allowCourier bool,
	format string,
) error {
	licenseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid license ID: %w", err)
	}

	parsedStatus, err := parseStatus(status)
	if err != nil {
		return err
	}

	if limit <= 0 {
		return fmt.Errorf("activation limit must be positive")
	}

	input := &licenseDomain.UpdateLicenseInput{
		Status:          parsedStatus,
		ActivationLimit: limit,
		ExpiresAt:       expiresAtFromDays(expiresInDays),
		AllowCourierAPI: allowCourier,
	}

	license, err := provisioningUseCase.Update(ctx, licenseID, input)
	if err != nil {
		return fmt.Errorf("failed to update license: %w", err)
	}

	outputLicense(license, format, writer)

	logger.Info("license updated successfully",
		slog.String("license_id", license.ID.String()),
		slog.String("status", string(license.Status)),
	)

	return nil
}
