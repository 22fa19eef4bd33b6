package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	courierHTTP "github.com/allisson/licensegate/internal/courier/http"
	licenseHTTP "github.com/allisson/licensegate/internal/license/http"
	licenseUseCase "github.com/allisson/licensegate/internal/license/usecase"
	"github.com/allisson/licensegate/internal/metrics"
)

// RouterConfig holds the handlers, middleware dependencies and feature
// toggles for the API router.
type RouterConfig struct {
	LicenseHandler    *licenseHTTP.LicenseHandler
	CourierHandler    *courierHTTP.CourierHandler
	ActivationUseCase licenseUseCase.ActivationUseCase

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	CORSEnabled      bool
	CORSAllowOrigins string

	MetricsProvider  *metrics.Provider
	MetricsNamespace string

	Logger *slog.Logger
}

// NewRouter assembles the gin API router: recovery, request id, request
// logging, optional CORS and HTTP metrics, health endpoints and the
// activation and courier routes. The courier route sits behind the license
// Bearer middleware and the optional per-license rate limit.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(cfg.Logger))

	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			cfg.MetricsProvider.MeterProvider(),
			cfg.MetricsNamespace,
		))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, cfg.Logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.POST("/activate", cfg.LicenseHandler.ActivateHandler)
	router.POST("/deactivate", cfg.LicenseHandler.DeactivateHandler)

	courier := router.Group("/")
	courier.Use(courierHTTP.LicenseAuthMiddleware(cfg.ActivationUseCase, cfg.Logger))
	if cfg.RateLimitEnabled {
		courier.Use(courierHTTP.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
	}
	courier.POST("/courier-status", cfg.CourierHandler.StatusHandler)

	return router
}
