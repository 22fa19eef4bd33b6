package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

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

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newLicenseRouter(useCase *mockActivationUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewLicenseHandler(useCase, testLogger())

	router := gin.New()
	router.POST("/activate", handler.ActivateHandler)
	router.POST("/deactivate", handler.DeactivateHandler)
	return router
}

func doJSONRequest(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestLicenseHandler_ActivateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		expiresAt := time.Now().UTC().Add(365 * 24 * time.Hour).Truncate(time.Second)
		useCase := new(mockActivationUseCase)
		useCase.On("Activate", mock.Anything, "LG-TEST-0001", "shop.example.com").
			Return(&licenseDomain.ActivationResult{ExpiresAt: &expiresAt}, nil)
		router := newLicenseRouter(useCase)

		recorder := doJSONRequest(router, "/activate",
			`{"license_key":"LG-TEST-0001","domain":"shop.example.com"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "License activated successfully", body["message"])
		assert.NotEmpty(t, body["expires_at"])
	})

	t.Run("AlreadyActivatedReportsIdempotentSuccess", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		useCase.On("Activate", mock.Anything, "LG-TEST-0001", "shop.example.com").
			Return(&licenseDomain.ActivationResult{AlreadyActivated: true}, nil)
		router := newLicenseRouter(useCase)

		recorder := doJSONRequest(router, "/activate",
			`{"license_key":"LG-TEST-0001","domain":"shop.example.com"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "License already activated on this domain", body["message"])
		assert.Nil(t, body["expires_at"])
	})

	t.Run("MissingParameters", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		router := newLicenseRouter(useCase)

		recorder := doJSONRequest(router, "/activate", `{"license_key":"LG-TEST-0001"}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "missing_parameters", body["error"])
		useCase.AssertNotCalled(t, "Activate")
	})

	t.Run("RejectsNonHostnameDomain", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		router := newLicenseRouter(useCase)

		recorder := doJSONRequest(router, "/activate",
			`{"license_key":"LG-TEST-0001","domain":"https://shop.example.com/path"}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		useCase.AssertNotCalled(t, "Activate")
	})

	t.Run("ErrorCodeMatrix", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{"InvalidKey", licenseDomain.ErrLicenseNotFound, http.StatusForbidden, "invalid_key"},
			{"KeyNotActive", licenseDomain.ErrKeyNotActive, http.StatusForbidden, "key_not_active"},
			{"KeyExpired", licenseDomain.ErrKeyExpired, http.StatusForbidden, "key_expired"},
			{"LimitReached", licenseDomain.ErrLimitReached, http.StatusForbidden, "limit_reached"},
			{"WriteRejected", licenseDomain.ErrConcurrentModification, http.StatusInternalServerError, "db_error"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				useCase := new(mockActivationUseCase)
				useCase.On("Activate", mock.Anything, "LG-TEST-0001", "shop.example.com").
					Return(nil, tt.err)
				router := newLicenseRouter(useCase)

				recorder := doJSONRequest(router, "/activate",
					`{"license_key":"LG-TEST-0001","domain":"shop.example.com"}`)

				assert.Equal(t, tt.wantStatus, recorder.Code)

				var body map[string]any
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body["error"])
			})
		}
	})
}

func TestLicenseHandler_DeactivateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		useCase.On("Deactivate", mock.Anything, "LG-TEST-0001", "shop.example.com").Return(nil)
		router := newLicenseRouter(useCase)

		recorder := doJSONRequest(router, "/deactivate",
			`{"license_key":"LG-TEST-0001","domain":"shop.example.com"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "License deactivated successfully", body["message"])
	})

	t.Run("NotActivatedOnDomain", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		useCase.On("Deactivate", mock.Anything, "LG-TEST-0001", "other.example.com").
			Return(licenseDomain.ErrNotActivatedOnDomain)
		router := newLicenseRouter(useCase)

		recorder := doJSONRequest(router, "/deactivate",
			`{"license_key":"LG-TEST-0001","domain":"other.example.com"}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "not_activated_here", body["error"])
	})

	t.Run("InvalidKeyIsForbidden", func(t *testing.T) {
		useCase := new(mockActivationUseCase)
		useCase.On("Deactivate", mock.Anything, "LG-TEST-0001", "shop.example.com").
			Return(licenseDomain.ErrLicenseNotFound)
		router := newLicenseRouter(useCase)

		recorder := doJSONRequest(router, "/deactivate",
			`{"license_key":"LG-TEST-0001","domain":"shop.example.com"}`)

		assert.Equal(t, http.StatusForbidden, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "invalid_key", body["error"])
	})
}
