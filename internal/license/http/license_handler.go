// Package http provides HTTP handlers for license activation operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/licensegate/internal/httputil"
	"github.com/allisson/licensegate/internal/license/http/dto"
	licenseUseCase "github.com/allisson/licensegate/internal/license/usecase"
	customValidation "github.com/allisson/licensegate/internal/validation"
)

// LicenseHandler handles HTTP requests for license activation and deactivation.
type LicenseHandler struct {
	activationUseCase licenseUseCase.ActivationUseCase
	logger            *slog.Logger
}

// NewLicenseHandler creates a new license handler with required dependencies.
func NewLicenseHandler(
	activationUseCase licenseUseCase.ActivationUseCase,
	logger *slog.Logger,
) *LicenseHandler {
	return &LicenseHandler{
		activationUseCase: activationUseCase,
		logger:            logger,
	}
}

// ActivateHandler binds a domain to a license.
// POST /activate - Returns 200 with the activation result, 400 on missing
// parameters, 403 on an invalid, inactive, expired or exhausted license and
// 500 when the store rejects the write.
func (h *LicenseHandler) ActivateHandler(c *gin.Context) {
	var req dto.ActivationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.activationUseCase.Activate(c.Request.Context(), req.LicenseKey, req.Domain)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	message := "License activated successfully"
	if result.AlreadyActivated {
		message = "License already activated on this domain"
	}

	c.JSON(http.StatusOK, dto.ActivateResponse{
		Success:   true,
		Message:   message,
		ExpiresAt: result.ExpiresAt,
	})
}

// DeactivateHandler removes a domain binding from a license.
// POST /deactivate - Returns 200 on success, 400 on missing parameters or a
// domain that was never activated, 403 on an unknown license and 500 when
// the store rejects the write.
func (h *LicenseHandler) DeactivateHandler(c *gin.Context) {
	var req dto.ActivationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.activationUseCase.Deactivate(c.Request.Context(), req.LicenseKey, req.Domain); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeactivateResponse{
		Success: true,
		Message: "License deactivated successfully",
	})
}
