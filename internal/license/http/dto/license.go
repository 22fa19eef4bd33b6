// Package dto defines request and response shapes for license activation endpoints.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/licensegate/internal/validation"
)

// ActivationRequest is the body of POST /activate and POST /deactivate.
type ActivationRequest struct {
	LicenseKey string `json:"license_key"`
	Domain     string `json:"domain"`
}

// Validate checks the request fields. The domain must be a bare hostname;
// schemes and paths are rejected at the edge.
func (r ActivationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LicenseKey, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Domain,
			validation.Required,
			customValidation.NotBlank,
			customValidation.DomainName,
		),
	)
}

// ActivateResponse is the success body of POST /activate.
type ActivateResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// DeactivateResponse is the success body of POST /deactivate.
type DeactivateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
