// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/licensegate/internal/app"
	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseStatus converts a status string to licenseDomain.Status.
// Returns an error if the status string is invalid.
func parseStatus(status string) (licenseDomain.Status, error) {
	switch status {
	case "active":
		return licenseDomain.StatusActive, nil
	case "inactive":
		return licenseDomain.StatusInactive, nil
	case "expired":
		return licenseDomain.StatusExpired, nil
	default:
		return "", fmt.Errorf(
			"invalid status: %s (valid options: active, inactive, expired)",
			status,
		)
	}
}

// expiresAtFromDays converts a day count to an expiry timestamp.
// Zero or negative means perpetual and yields nil.
func expiresAtFromDays(days int) *time.Time {
	if days <= 0 {
		return nil
	}
	expiresAt := time.Now().UTC().AddDate(0, 0, days)
	return &expiresAt
}

// outputLicenseText writes a human-readable license summary.
func outputLicenseText(license *licenseDomain.License, writer io.Writer) {
	expiresAt := "never"
	if license.ExpiresAt != nil {
		expiresAt = license.ExpiresAt.Format(time.RFC3339)
	}

	domains := "-"
	if len(license.ActivatedDomains) > 0 {
		domains = strings.Join(license.ActivatedDomains, ", ")
	}

	_, _ = fmt.Fprintf(writer, "ID:                  %s\n", license.ID)
	_, _ = fmt.Fprintf(writer, "Key:                 %s\n", license.Key)
	_, _ = fmt.Fprintf(writer, "Status:              %s\n", license.Status)
	_, _ = fmt.Fprintf(writer, "Expires at:          %s\n", expiresAt)
	_, _ = fmt.Fprintf(writer, "Activation limit:    %d\n", license.ActivationLimit)
	_, _ = fmt.Fprintf(writer, "Current activations: %d\n", license.CurrentActivations)
	_, _ = fmt.Fprintf(writer, "Activated domains:   %s\n", domains)
	_, _ = fmt.Fprintf(writer, "Allow courier API:   %t\n", license.AllowCourierAPI)
}

// outputLicenseJSON writes the license as indented JSON.
func outputLicenseJSON(license *licenseDomain.License, writer io.Writer) {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(license)
}

// outputLicense writes the license in the requested format.
func outputLicense(license *licenseDomain.License, format string, writer io.Writer) {
	if format == "json" {
		outputLicenseJSON(license, writer)
		return
	}
	outputLicenseText(license, writer)
}
