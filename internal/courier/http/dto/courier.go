// Package dto defines request and response shapes for the courier endpoint.
package dto

import (
	validation "github.com/jellydator/validation"

	courierDomain "github.com/allisson/licensegate/internal/courier/domain"
	customValidation "github.com/allisson/licensegate/internal/validation"
)

// CourierStatusRequest is the body of POST /courier-status.
type CourierStatusRequest struct {
	SearchTerm string `json:"searchTerm"`
}

// Validate checks the request fields.
func (r CourierStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SearchTerm,
			validation.Required.Error("searchTerm required"),
			customValidation.NotBlank.Error("searchTerm required"),
		),
	)
}

// DebugInfo is the transport-level decoration added to courier responses.
// It is merged into the response only, never into the cached payload.
type DebugInfo struct {
	Status                string  `json:"status"`
	HoorinCallTimeSeconds float64 `json:"hoorin_call_time_seconds"`
}

// CourierSummaryResponse is the canonical summary response shape.
type CourierSummaryResponse struct {
	courierDomain.CanonicalSummary
	DebugInfo DebugInfo `json:"_debug_info"`
}
