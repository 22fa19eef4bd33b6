// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/licensegate/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error    string          `json:"error"`
	Message  string          `json:"message,omitempty"`
	Upstream *UpstreamDetail `json:"upstream,omitempty"`
}

// UpstreamDetail carries diagnostic information from a failed third-party call.
type UpstreamDetail struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body,omitempty"`
}

// UpstreamReporter is implemented by errors that carry upstream diagnostics
// (status code and response body of a failed third-party call).
type UpstreamReporter interface {
	UpstreamDetail() (statusCode int, body string)
}

// HandleErrorGin maps domain errors to HTTP status codes and returns a JSON
// response. The error code in the body comes from errors.WithCode when present,
// otherwise from a default per sentinel. Errors implementing UpstreamReporter
// get their upstream status/body attached for diagnostic passthrough.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var errorResponse ErrorResponse

	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errorResponse = ErrorResponse{
			Error:   codeOrDefault(err, "invalid_input"),
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrStateConflict):
		statusCode = http.StatusBadRequest
		errorResponse = ErrorResponse{
			Error:   codeOrDefault(err, "state_conflict"),
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error:   codeOrDefault(err, "unauthorized"),
			Message: "Authentication is required",
		}

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		errorResponse = ErrorResponse{
			Error:   codeOrDefault(err, "forbidden"),
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		errorResponse = ErrorResponse{
			Error:   codeOrDefault(err, "not_found"),
			Message: "The requested resource was not found",
		}

	case apperrors.Is(err, apperrors.ErrPersistence):
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error:   codeOrDefault(err, "db_error"),
			Message: "The record store rejected the write, resubmit the request",
		}

	case apperrors.Is(err, apperrors.ErrNoConfiguration):
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error:   codeOrDefault(err, "no_configuration"),
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrUpstream):
		statusCode = http.StatusBadGateway
		errorResponse = ErrorResponse{
			Error:   codeOrDefault(err, "external_api_error"),
			Message: err.Error(),
		}
		var reporter UpstreamReporter
		if apperrors.As(err, &reporter) {
			upstreamStatus, body := reporter.UpstreamDetail()
			errorResponse.Upstream = &UpstreamDetail{StatusCode: upstreamStatus, Body: body}
		}

	default:
		// For unknown/internal errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 400 Bad Request response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "missing_parameters",
		Message: err.Error(),
	})
}

// MakeJSONResponse writes a JSON response with the given status code using the
// plain net/http response writer. Used by middleware outside the gin pipeline.
func MakeJSONResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// codeOrDefault returns the API error code attached via errors.WithCode,
// falling back to the provided default.
func codeOrDefault(err error, def string) string {
	if code := apperrors.Code(err); code != "" {
		return code
	}
	return def
}
