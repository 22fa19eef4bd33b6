package domain

import (
	"fmt"

	apperrors "github.com/allisson/licensegate/internal/errors"
)

// AcquisitionReason identifies which stage of the session acquisition
// pipeline failed.
type AcquisitionReason string

// Acquisition failure reasons.
const (
	ReasonMissingCredentials AcquisitionReason = "missing_credentials"
	ReasonLoginRejected      AcquisitionReason = "login_rejected"
	ReasonTokenNotFound      AcquisitionReason = "token_not_found"
	ReasonCookieParse        AcquisitionReason = "cookie_parse_failed"
)

// AcquisitionError reports a session acquisition failure with its
// stage-specific reason. It chains to ErrUpstream because acquisition always
// fails against the external portal boundary.
type AcquisitionError struct {
	Reason AcquisitionReason
	Err    error
}

// Error implements the error interface.
func (e *AcquisitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session acquisition failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("session acquisition failed (%s)", e.Reason)
}

// Unwrap chains to ErrUpstream for status mapping.
func (e *AcquisitionError) Unwrap() error {
	return apperrors.ErrUpstream
}

// NewAcquisitionError builds an AcquisitionError. err may be nil when the
// stage failed without an underlying cause.
func NewAcquisitionError(reason AcquisitionReason, err error) error {
	return &AcquisitionError{Reason: reason, Err: err}
}
