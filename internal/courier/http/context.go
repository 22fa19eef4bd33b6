// Package http provides HTTP handlers and middleware for the courier lookup endpoint.
package http

import (
	"context"

	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
)

// licenseKey is a context key type for storing the authenticated license.
type licenseKey struct{}

// WithLicense stores the authenticated license in the context.
// Called by LicenseAuthMiddleware after a successful permission check.
func WithLicense(ctx context.Context, license *licenseDomain.License) context.Context {
	return context.WithValue(ctx, licenseKey{}, license)
}

// GetLicense retrieves the authenticated license from the context.
// Returns (license, true) when present, or (nil, false) when no license was set.
func GetLicense(ctx context.Context) (*licenseDomain.License, bool) {
	license, ok := ctx.Value(licenseKey{}).(*licenseDomain.License)
	return license, ok
}
