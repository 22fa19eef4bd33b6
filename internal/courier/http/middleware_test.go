// Package http provides HTTP handlers and middleware for the courier lookup endpoint.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	courierUseCase "github.com/allisson/licensegate/internal/courier/usecase"
	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
)

// mockActivationUseCase is a mock implementation of ActivationUseCase for testing.
type mockActivationUseCase struct {
	mock.Mock
}

func (m *mockActivationUseCase) Activate(
	ctx context.Context,
	key, domain string,
) (*licenseDomain.ActivationResult, error) {
	args := m.Called(ctx, key, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.ActivationResult), args.Error(1)
}

func (m *mockActivationUseCase) Deactivate(ctx context.Context, key, domain string) error {
	args := m.Called(ctx, key, domain)
	return args.Error(0)
}

func (m *mockActivationUseCase) CheckCourierPermission(
	ctx context.Context,
	key string,
) (*licenseDomain.License, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

// mockLookupUseCase is a mock implementation of LookupUseCase for testing.
type mockLookupUseCase struct {
	mock.Mock
}

func (m *mockLookupUseCase) Lookup(
	ctx context.Context,
	licenseKey, searchTerm string,
) (*courierUseCase.LookupOutput, error) {
	args := m.Called(ctx, licenseKey, searchTerm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courierUseCase.LookupOutput), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testLicense() *licenseDomain.License {
	return &licenseDomain.License{
		ID:              uuid.Must(uuid.NewV7()),
		Key:             "LG-TEST-0001",
		Status:          licenseDomain.StatusActive,
		AllowCourierAPI: true,
	}
}

func TestLicenseAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(useCase *mockActivationUseCase) *gin.Engine {
		router := gin.New()
		router.Use(LicenseAuthMiddleware(useCase, testLogger()))
		router.GET("/protected", func(c *gin.Context) {
			license, ok := GetLicense(c.Request.Context())
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"license_key": license.Key})
		})
		return router
	}

	t.Run("MissingHeaderIsUnauthorized", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		router := newRouter(useCase)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		useCase.AssertNotCalled(t, "CheckCourierPermission")
	})

	t.Run("MalformedHeaderIsUnauthorized", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		router := newRouter(useCase)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/protected", nil)
		request.Header.Set("Authorization", "Basic abc123")
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("EmptyCredentialIsUnauthorized", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		router := newRouter(useCase)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/protected", nil)
		request.Header.Set("Authorization", "Bearer ")
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("UnpermittedLicenseIsForbidden", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		useCase.On("CheckCourierPermission", mock.Anything, "LG-TEST-0001").
			Return(nil, licenseDomain.ErrCourierNotAllowed)
		router := newRouter(useCase)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/protected", nil)
		request.Header.Set("Authorization", "Bearer LG-TEST-0001")
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusForbidden, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "forbidden", body["error"])
	})

	t.Run("ExpiredLicenseIsForbiddenWithCode", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		useCase.On("CheckCourierPermission", mock.Anything, "LG-TEST-0001").
			Return(nil, licenseDomain.ErrKeyExpired)
		router := newRouter(useCase)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/protected", nil)
		request.Header.Set("Authorization", "Bearer LG-TEST-0001")
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusForbidden, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "key_expired", body["error"])
	})

	t.Run("ValidLicenseReachesHandler", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		useCase.On("CheckCourierPermission", mock.Anything, "LG-TEST-0001").
			Return(testLicense(), nil)
		router := newRouter(useCase)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/protected", nil)
		request.Header.Set("Authorization", "bearer LG-TEST-0001") // lowercase scheme accepted
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "LG-TEST-0001", body["license_key"])
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(rps float64, burst int) *gin.Engine {
		useCase := new(mockActivationUseCase)
		useCase.On("CheckCourierPermission", mock.Anything, "LG-TEST-0001").
			Return(testLicense(), nil)

		router := gin.New()
		router.Use(LicenseAuthMiddleware(useCase, testLogger()))
		router.Use(RateLimitMiddleware(rps, burst, testLogger()))
		router.GET("/limited", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return router
	}

	t.Run("AllowsWithinBurst", func(t *testing.T) {
		router := newRouter(1, 2)

		for i := 0; i < 2; i++ {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/limited", nil)
			request.Header.Set("Authorization", "Bearer LG-TEST-0001")
			router.ServeHTTP(recorder, request)
			assert.Equal(t, http.StatusOK, recorder.Code)
		}
	})

	t.Run("RejectsOverBurstWithRetryAfter", func(t *testing.T) {
		router := newRouter(0.1, 1)

		first := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/limited", nil)
		request.Header.Set("Authorization", "Bearer LG-TEST-0001")
		router.ServeHTTP(first, request)
		require.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		request = httptest.NewRequest(http.MethodGet, "/limited", nil)
		request.Header.Set("Authorization", "Bearer LG-TEST-0001")
		router.ServeHTTP(second, request)

		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))
	})
}
