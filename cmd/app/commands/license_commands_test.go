package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	licenseDomain "github.com/allisson/licensegate/internal/license/domain"
)

// mockProvisioningUseCase is a testify mock for the provisioning use case.
type mockProvisioningUseCase struct {
	mock.Mock
}

func (m *mockProvisioningUseCase) Create(
	ctx context.Context,
	input *licenseDomain.CreateLicenseInput,
) (*licenseDomain.License, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

func (m *mockProvisioningUseCase) Update(
	ctx context.Context,
	licenseID uuid.UUID,
	input *licenseDomain.UpdateLicenseInput,
) (*licenseDomain.License, error) {
	args := m.Called(ctx, licenseID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

func (m *mockProvisioningUseCase) GetByKey(
	ctx context.Context,
	key string,
) (*licenseDomain.License, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

func commandLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLicense() *licenseDomain.License {
	now := time.Now().UTC()
	return &licenseDomain.License{
		ID:                 uuid.Must(uuid.NewV7()),
		Key:                "LG-TEST-0001",
		Status:             licenseDomain.StatusActive,
		ActivationLimit:    3,
		CurrentActivations: 1,
		ActivatedDomains:   []string{"shop.example.com"},
		AllowCourierAPI:    true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestRunCreateLicense(t *testing.T) {
	ctx := context.Background()

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockProvisioningUseCase{}
		license := testLicense()

		mockUseCase.On("Create", ctx, mock.MatchedBy(func(input *licenseDomain.CreateLicenseInput) bool {
			return input.Key == "" && input.ActivationLimit == 3 && input.AllowCourierAPI
		})).Return(license, nil)

		var out bytes.Buffer
		err := RunCreateLicense(ctx, mockUseCase, commandLogger(), &out, "", 3, 0, true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), license.ID.String())
		require.Contains(t, out.String(), "LG-TEST-0001")
		require.Contains(t, out.String(), "Expires at:          never")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output-with-expiry", func(t *testing.T) {
		mockUseCase := &mockProvisioningUseCase{}
		license := testLicense()

		mockUseCase.On("Create", ctx, mock.MatchedBy(func(input *licenseDomain.CreateLicenseInput) bool {
			return input.ExpiresAt != nil && input.ExpiresAt.After(time.Now().UTC().AddDate(0, 0, 29))
		})).Return(license, nil)

		var out bytes.Buffer
		err := RunCreateLicense(ctx, mockUseCase, commandLogger(), &out, "", 1, 30, false, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"Key": "LG-TEST-0001"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("rejects-non-positive-limit", func(t *testing.T) {
		mockUseCase := &mockProvisioningUseCase{}

		var out bytes.Buffer
		err := RunCreateLicense(ctx, mockUseCase, commandLogger(), &out, "", 0, 0, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "activation limit must be positive")
		mockUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("use-case-failure", func(t *testing.T) {
		mockUseCase := &mockProvisioningUseCase{}
		mockUseCase.On("Create", ctx, mock.Anything).Return(nil, errors.New("boom"))

		var out bytes.Buffer
		err := RunCreateLicense(ctx, mockUseCase, commandLogger(), &out, "", 1, 0, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create license")
	})
}

func TestRunUpdateLicense(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockUseCase := &mockProvisioningUseCase{}
		license := testLicense()
		license.Status = licenseDomain.StatusInactive

		mockUseCase.On("Update", ctx, license.ID, mock.MatchedBy(func(input *licenseDomain.UpdateLicenseInput) bool {
			return input.Status == licenseDomain.StatusInactive && input.ActivationLimit == 5
		})).Return(license, nil)

		var out bytes.Buffer
		err := RunUpdateLicense(
			ctx, mockUseCase, commandLogger(), &out,
			license.ID.String(), "inactive", 5, 0, true, "text",
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), "inactive")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-id", func(t *testing.T) {
		mockUseCase := &mockProvisioningUseCase{}

		var out bytes.Buffer
		err := RunUpdateLicense(ctx, mockUseCase, commandLogger(), &out, "not-a-uuid", "active", 1, 0, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid license ID")
		mockUseCase.AssertNotCalled(t, "Update")
	})

	t.Run("invalid-status", func(t *testing.T) {
		mockUseCase := &mockProvisioningUseCase{}

		var out bytes.Buffer
		err := RunUpdateLicense(
			ctx, mockUseCase, commandLogger(), &out,
			uuid.NewString(), "suspended", 1, 0, false, "text",
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid status")
		mockUseCase.AssertNotCalled(t, "Update")
	})
}

func TestRunGetLicense(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockUseCase := &mockProvisioningUseCase{}
		license := testLicense()

		mockUseCase.On("GetByKey", ctx, "LG-TEST-0001").Return(license, nil)

		var out bytes.Buffer
		err := RunGetLicense(ctx, mockUseCase, commandLogger(), &out, "LG-TEST-0001", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "shop.example.com")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("not-found", func(t *testing.T) {
		mockUseCase := &mockProvisioningUseCase{}
		mockUseCase.On("GetByKey", ctx, "missing").Return(nil, licenseDomain.ErrLicenseNotFound)

		var out bytes.Buffer
		err := RunGetLicense(ctx, mockUseCase, commandLogger(), &out, "missing", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to get license")
	})
}
