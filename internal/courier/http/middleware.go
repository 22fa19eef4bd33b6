package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/licensegate/internal/errors"
	"github.com/allisson/licensegate/internal/httputil"
	licenseUseCase "github.com/allisson/licensegate/internal/license/usecase"
)

// LicenseAuthMiddleware authenticates courier requests via a license key
// passed as a Bearer credential in the Authorization header.
//
// The middleware:
// 1. Extracts the Bearer credential from the Authorization header (case-insensitive)
// 2. Validates the license via ActivationUseCase.CheckCourierPermission
// 3. Stores the license in the request context for handlers (GetLicense)
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Unknown, inactive, expired or unpermitted license → 403 Forbidden
func LicenseAuthMiddleware(
	activationUseCase licenseUseCase.ActivationUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("courier auth failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer credential (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("courier auth failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		key := authHeader[len(bearerPrefix):]
		if key == "" {
			logger.Debug("courier auth failed: empty bearer credential")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		license, err := activationUseCase.CheckCourierPermission(c.Request.Context(), key)
		if err != nil {
			logger.Debug("courier auth failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithLicense(c.Request.Context(), license)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
