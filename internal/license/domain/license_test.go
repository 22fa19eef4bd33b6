package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLicense(limit int) *License {
	return &License{
		ID:              uuid.Must(uuid.NewV7()),
		Key:             "test-key",
		Status:          StatusActive,
		ActivationLimit: limit,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
}

func TestExpireIfDue(t *testing.T) {
	now := time.Now().UTC()

	t.Run("PerpetualLicenseNeverExpires", func(t *testing.T) {
		lic := newLicense(1)
		assert.False(t, lic.ExpireIfDue(now))
		assert.Equal(t, StatusActive, lic.Status)
	})

	t.Run("FutureExpiryDoesNotTransition", func(t *testing.T) {
		lic := newLicense(1)
		expiresAt := now.Add(time.Hour)
		lic.ExpiresAt = &expiresAt

		assert.False(t, lic.ExpireIfDue(now))
		assert.Equal(t, StatusActive, lic.Status)
	})

	t.Run("PastExpiryTransitionsOnce", func(t *testing.T) {
		lic := newLicense(1)
		expiresAt := now.Add(-time.Minute)
		lic.ExpiresAt = &expiresAt

		assert.True(t, lic.ExpireIfDue(now))
		assert.Equal(t, StatusExpired, lic.Status)

		// Second read observes the already-expired status, no transition.
		assert.False(t, lic.ExpireIfDue(now))
		assert.Equal(t, StatusExpired, lic.Status)
	})
}

func TestBindDomain(t *testing.T) {
	t.Run("BindConsumesSlot", func(t *testing.T) {
		lic := newLicense(2)

		already, err := lic.BindDomain("shop.example.com")
		require.NoError(t, err)
		assert.False(t, already)
		assert.Equal(t, 1, lic.CurrentActivations)
		assert.Equal(t, []string{"shop.example.com"}, lic.ActivatedDomains)
	})

	t.Run("RebindIsIdempotent", func(t *testing.T) {
		lic := newLicense(2)

		_, err := lic.BindDomain("shop.example.com")
		require.NoError(t, err)

		already, err := lic.BindDomain("shop.example.com")
		require.NoError(t, err)
		assert.True(t, already)
		assert.Equal(t, 1, lic.CurrentActivations)
		assert.Len(t, lic.ActivatedDomains, 1)
	})

	t.Run("BindNormalizesCase", func(t *testing.T) {
		lic := newLicense(2)

		_, err := lic.BindDomain("Shop.Example.COM")
		require.NoError(t, err)

		already, err := lic.BindDomain("shop.example.com")
		require.NoError(t, err)
		assert.True(t, already)
	})

	t.Run("LimitCheckedBeforeMutation", func(t *testing.T) {
		lic := newLicense(1)

		_, err := lic.BindDomain("a.example.com")
		require.NoError(t, err)

		_, err = lic.BindDomain("b.example.com")
		assert.ErrorIs(t, err, ErrLimitReached)
		assert.Equal(t, 1, lic.CurrentActivations)
		assert.Len(t, lic.ActivatedDomains, 1)
	})

	t.Run("CountNeverExceedsLimit", func(t *testing.T) {
		lic := newLicense(3)
		domains := []string{"a.example.com", "b.example.com", "c.example.com", "d.example.com"}

		for _, d := range domains {
			_, _ = lic.BindDomain(d)
			assert.LessOrEqual(t, lic.CurrentActivations, lic.ActivationLimit)
		}
		assert.Equal(t, 3, lic.CurrentActivations)
	})
}

func TestUnbindDomain(t *testing.T) {
	t.Run("UnbindReleasesSlot", func(t *testing.T) {
		lic := newLicense(2)
		_, err := lic.BindDomain("a.example.com")
		require.NoError(t, err)
		_, err = lic.BindDomain("b.example.com")
		require.NoError(t, err)

		require.NoError(t, lic.UnbindDomain("a.example.com"))
		assert.Equal(t, 1, lic.CurrentActivations)
		assert.Equal(t, []string{"b.example.com"}, lic.ActivatedDomains)
	})

	t.Run("UnbindUnknownDomainFails", func(t *testing.T) {
		lic := newLicense(2)
		err := lic.UnbindDomain("never.example.com")
		assert.ErrorIs(t, err, ErrNotActivatedOnDomain)
	})

	t.Run("CountClampsAtZero", func(t *testing.T) {
		// Stored count drifted below the set size out-of-band.
		lic := newLicense(2)
		lic.ActivatedDomains = []string{"a.example.com"}
		lic.CurrentActivations = 0

		require.NoError(t, lic.UnbindDomain("a.example.com"))
		assert.Equal(t, 0, lic.CurrentActivations)
	})

	t.Run("RoundTripRestoresState", func(t *testing.T) {
		lic := newLicense(2)
		_, err := lic.BindDomain("a.example.com")
		require.NoError(t, err)

		require.NoError(t, lic.UnbindDomain("a.example.com"))
		already, err := lic.BindDomain("a.example.com")
		require.NoError(t, err)
		assert.False(t, already)
		assert.Equal(t, 1, lic.CurrentActivations)
		assert.Equal(t, []string{"a.example.com"}, lic.ActivatedDomains)
	})
}

func TestHasDomain(t *testing.T) {
	lic := newLicense(2)
	_, err := lic.BindDomain("shop.example.com")
	require.NoError(t, err)

	assert.True(t, lic.HasDomain("shop.example.com"))
	assert.True(t, lic.HasDomain("SHOP.example.com"))
	assert.False(t, lic.HasDomain("other.example.com"))
}
