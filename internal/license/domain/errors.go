package domain

import (
	"github.com/allisson/licensegate/internal/errors"
)

// License activation errors. Each carries the API error code surfaced in
// responses and wraps the sentinel that determines the HTTP status.
var (
	// ErrMissingParameter indicates the license key or domain was empty.
	ErrMissingParameter = errors.WithCode(
		errors.Wrap(errors.ErrInvalidInput, "license_key and domain are required"),
		"missing_parameters",
	)

	// ErrLicenseNotFound indicates no license matches the supplied key.
	ErrLicenseNotFound = errors.WithCode(
		errors.Wrap(errors.ErrForbidden, "invalid license key"),
		"invalid_key",
	)

	// ErrKeyNotActive indicates the license exists but is not in the active state.
	ErrKeyNotActive = errors.WithCode(
		errors.Wrap(errors.ErrForbidden, "license key is not active"),
		"key_not_active",
	)

	// ErrKeyExpired indicates the license expiry timestamp has passed.
	ErrKeyExpired = errors.WithCode(
		errors.Wrap(errors.ErrForbidden, "license key expired"),
		"key_expired",
	)

	// ErrLimitReached indicates all activation slots are consumed.
	ErrLimitReached = errors.WithCode(
		errors.Wrap(errors.ErrForbidden, "activation limit reached"),
		"limit_reached",
	)

	// ErrNotActivatedOnDomain indicates a deactivation for a domain that was never bound.
	ErrNotActivatedOnDomain = errors.WithCode(
		errors.Wrap(errors.ErrStateConflict, "license is not activated on this domain"),
		"not_activated_here",
	)

	// ErrCourierNotAllowed indicates the license lacks the courier API capability.
	ErrCourierNotAllowed = errors.WithCode(
		errors.Wrap(errors.ErrForbidden, "courier API access is not enabled for this license"),
		"forbidden",
	)

	// ErrConcurrentModification indicates the conditional update was rejected
	// because the record changed between read and write. Never retried; the
	// caller must resubmit.
	ErrConcurrentModification = errors.WithCode(
		errors.Wrap(errors.ErrPersistence, "license was modified concurrently"),
		"db_error",
	)
)
