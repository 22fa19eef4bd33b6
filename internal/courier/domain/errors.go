package domain

import (
	"fmt"

	apperrors "github.com/allisson/licensegate/internal/errors"
)

// Courier lookup errors with their API error codes.
var (
	// ErrNoAPIKeysConfigured indicates the upstream credential pool is empty.
	ErrNoAPIKeysConfigured = apperrors.WithCode(
		apperrors.Wrap(apperrors.ErrNoConfiguration, "no upstream api keys configured"),
		"no_api_keys",
	)

	// ErrUpstreamUnavailable indicates a transport-level failure reaching the
	// upstream aggregation API (timeout, connection refused, DNS).
	ErrUpstreamUnavailable = apperrors.WithCode(
		apperrors.Wrap(apperrors.ErrUpstream, "upstream api unavailable"),
		"external_api_error",
	)
)

// UpstreamStatusError indicates the upstream aggregation API answered with a
// non-2xx status. It carries the upstream status code and body for diagnostic
// passthrough to the client.
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream api returned status %d", e.StatusCode)
}

// Unwrap chains to ErrUpstream for status mapping.
func (e *UpstreamStatusError) Unwrap() error {
	return apperrors.ErrUpstream
}

// UpstreamDetail reports the upstream status code and body.
func (e *UpstreamStatusError) UpstreamDetail() (int, string) {
	return e.StatusCode, e.Body
}

// NewUpstreamStatusError builds an UpstreamStatusError with the
// external_api_error code attached.
func NewUpstreamStatusError(statusCode int, body string) error {
	return apperrors.WithCode(
		&UpstreamStatusError{StatusCode: statusCode, Body: body},
		"external_api_error",
	)
}
