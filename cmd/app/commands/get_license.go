package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	licenseUseCase "github.com/allisson/licensegate/internal/license/usecase"
)

// RunGetLicense shows a license by its key in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunGetLicense(
	ctx context.Context,
	provisioningUseCase licenseUseCase.ProvisioningUseCase,
	logger *slog.Logger,
	writer io.Writer,
	key string,
	format string,
) error {
	license, err := provisioningUseCase.GetByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get license: %w", err)
	}

	outputLicense(license, format, writer)

	logger.Info("license retrieved",
		slog.String("license_id", license.ID.String()),
	)

	return nil
}
