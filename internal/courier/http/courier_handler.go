package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	courierDomain "github.com/allisson/licensegate/internal/courier/domain"
	"github.com/allisson/licensegate/internal/courier/http/dto"
	courierUseCase "github.com/allisson/licensegate/internal/courier/usecase"
	apperrors "github.com/allisson/licensegate/internal/errors"
	"github.com/allisson/licensegate/internal/httputil"
	customValidation "github.com/allisson/licensegate/internal/validation"
)

// CourierHandler handles HTTP requests for courier status lookups.
type CourierHandler struct {
	lookupUseCase courierUseCase.LookupUseCase
	logger        *slog.Logger
}

// NewCourierHandler creates a new courier handler with required dependencies.
func NewCourierHandler(lookupUseCase courierUseCase.LookupUseCase, logger *slog.Logger) *CourierHandler {
	return &CourierHandler{
		lookupUseCase: lookupUseCase,
		logger:        logger,
	}
}

// StatusHandler resolves a search term against the courier aggregation API.
// POST /courier-status - requires a license Bearer credential (LicenseAuthMiddleware).
//
// The response carries the upstream payload decorated with _debug_info and an
// X-Cache-Status header. With ?format=summary the payload is normalized into
// the canonical per-courier summary instead. The decoration happens here, at
// the transport boundary; the cached payload stays raw.
func (h *CourierHandler) StatusHandler(c *gin.Context) {
	var req dto.CourierStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	license, ok := GetLicense(c.Request.Context())
	if !ok || license == nil {
		// Should never happen - auth middleware runs first
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	output, err := h.lookupUseCase.Lookup(c.Request.Context(), license.Key, req.SearchTerm)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("X-Cache-Status", string(output.CacheStatus))

	debugInfo := dto.DebugInfo{
		Status:                string(output.CacheStatus),
		HoorinCallTimeSeconds: output.UpstreamLatency.Seconds(),
	}

	if c.Query("format") == "summary" {
		c.JSON(http.StatusOK, dto.CourierSummaryResponse{
			CanonicalSummary: courierDomain.Summarize(output.Payload),
			DebugInfo:        debugInfo,
		})
		return
	}

	var decorated map[string]any
	if err := json.Unmarshal(output.Payload, &decorated); err != nil || decorated == nil {
		// Non-object upstream payload: pass it through untouched.
		c.Data(http.StatusOK, "application/json", output.Payload)
		return
	}

	decorated["_debug_info"] = debugInfo
	c.JSON(http.StatusOK, decorated)
}
