package usecase

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	courierDomain "github.com/allisson/licensegate/internal/courier/domain"
	"github.com/allisson/licensegate/internal/courier/service"
	apperrors "github.com/allisson/licensegate/internal/errors"
	"github.com/allisson/licensegate/internal/metrics"
)

// memoryCursorRepository is an in-memory CursorRepository for tests.
type memoryCursorRepository struct {
	mu       sync.Mutex
	position int
}

func (m *memoryCursorRepository) Get(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position, nil
}

func (m *memoryCursorRepository) Set(ctx context.Context, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = position
	return nil
}

// mockUpstreamClient is a mock implementation of service.UpstreamClient.
type mockUpstreamClient struct {
	mock.Mock
}

func (m *mockUpstreamClient) Lookup(ctx context.Context, searchTerm, apiKey string) ([]byte, error) {
	args := m.Called(ctx, searchTerm, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// recordingAuditRepository captures audit writes and signals their completion
// so tests can wait on the detached goroutine.
type recordingAuditRepository struct {
	mu   sync.Mutex
	logs []*courierDomain.AuditLog
	err  error
	done chan struct{}
}

func newRecordingAuditRepository(err error) *recordingAuditRepository {
	return &recordingAuditRepository{err: err, done: make(chan struct{}, 10)}
}

func (r *recordingAuditRepository) Create(ctx context.Context, log *courierDomain.AuditLog) error {
	r.mu.Lock()
	r.logs = append(r.logs, log)
	r.mu.Unlock()
	r.done <- struct{}{}
	return r.err
}

func (r *recordingAuditRepository) wait(t *testing.T) *courierDomain.AuditLog {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit write")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logs[len(r.logs)-1]
}

func newTestLookupUseCase(
	t *testing.T,
	client service.UpstreamClient,
	auditRepo AuditLogRepository,
	keyPool []string,
) LookupUseCase {
	t.Helper()
	cache := service.NewResponseCache()
	t.Cleanup(cache.Stop)
	rotator := service.NewRotator(&memoryCursorRepository{}, slog.Default())
	return NewLookupUseCase(cache, rotator, client, auditRepo, keyPool, time.Hour, slog.Default())
}

func TestLookupUseCase_Lookup(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"steadfast":{"total_delivered":6,"total_cancelled":0}}`)

	t.Run("MissThenHitServesIdenticalBytes", func(t *testing.T) {
		client := new(mockUpstreamClient)
		client.On("Lookup", mock.Anything, "01712345678", "key-A").Return(payload, nil).Once()
		auditRepo := newRecordingAuditRepository(nil)

		useCase := newTestLookupUseCase(t, client, auditRepo, []string{"key-A"})

		first, err := useCase.Lookup(ctx, "LG-TEST-0001", "01712345678")
		require.NoError(t, err)
		assert.Equal(t, CacheStatusMiss, first.CacheStatus)
		assert.Equal(t, payload, first.Payload)
		auditRepo.wait(t)

		second, err := useCase.Lookup(ctx, "LG-TEST-0001", "01712345678")
		require.NoError(t, err)
		assert.Equal(t, CacheStatusHit, second.CacheStatus)
		assert.Equal(t, first.Payload, second.Payload)
		assert.Zero(t, second.UpstreamLatency)

		client.AssertNumberOfCalls(t, "Lookup", 1)
	})

	t.Run("EmptyPoolFailsWithNoAPIKeys", func(t *testing.T) {
		client := new(mockUpstreamClient)
		auditRepo := newRecordingAuditRepository(nil)

		useCase := newTestLookupUseCase(t, client, auditRepo, nil)

		_, err := useCase.Lookup(ctx, "LG-TEST-0001", "01712345678")
		assert.ErrorIs(t, err, courierDomain.ErrNoAPIKeysConfigured)
		client.AssertNotCalled(t, "Lookup")
	})

	t.Run("UpstreamFailureIsNotCached", func(t *testing.T) {
		client := new(mockUpstreamClient)
		client.On("Lookup", mock.Anything, "01712345678", "key-A").
			Return(nil, courierDomain.NewUpstreamStatusError(500, "boom")).Once()
		client.On("Lookup", mock.Anything, "01712345678", "key-B").Return(payload, nil).Once()
		auditRepo := newRecordingAuditRepository(nil)

		useCase := newTestLookupUseCase(t, client, auditRepo, []string{"key-A", "key-B"})

		_, err := useCase.Lookup(ctx, "LG-TEST-0001", "01712345678")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))

		// The failed call consumed a rotation slot; the retry dispatches again
		// with the next credential and succeeds.
		output, err := useCase.Lookup(ctx, "LG-TEST-0001", "01712345678")
		require.NoError(t, err)
		assert.Equal(t, CacheStatusMiss, output.CacheStatus)
		auditRepo.wait(t)
	})

	t.Run("AuditFailureDoesNotFailLookup", func(t *testing.T) {
		client := new(mockUpstreamClient)
		client.On("Lookup", mock.Anything, "01712345678", "key-A").Return(payload, nil).Once()
		auditRepo := newRecordingAuditRepository(apperrors.ErrPersistence)

		useCase := newTestLookupUseCase(t, client, auditRepo, []string{"key-A"})

		output, err := useCase.Lookup(ctx, "LG-TEST-0001", "01712345678")
		require.NoError(t, err)
		assert.Equal(t, CacheStatusMiss, output.CacheStatus)
		auditRepo.wait(t)
	})

	t.Run("AuditRecordsTruncatedCredential", func(t *testing.T) {
		client := new(mockUpstreamClient)
		client.On("Lookup", mock.Anything, "01712345678", "hoorin-a1b2c3d4").Return(payload, nil).Once()
		auditRepo := newRecordingAuditRepository(nil)

		useCase := newTestLookupUseCase(t, client, auditRepo, []string{"hoorin-a1b2c3d4"})

		_, err := useCase.Lookup(ctx, "LG-TEST-0001", "01712345678")
		require.NoError(t, err)

		log := auditRepo.wait(t)
		assert.Equal(t, "LG-TEST-0001", log.LicenseKey)
		assert.Equal(t, "c3d4", log.KeySuffix)
		assert.Equal(t, "01712345678", log.SearchTerm)
	})

	t.Run("RotationAdvancesPerDispatch", func(t *testing.T) {
		client := new(mockUpstreamClient)
		client.On("Lookup", mock.Anything, "first-term", "key-A").Return(payload, nil).Once()
		client.On("Lookup", mock.Anything, "second-term", "key-B").Return(payload, nil).Once()
		auditRepo := newRecordingAuditRepository(nil)

		useCase := newTestLookupUseCase(t, client, auditRepo, []string{"key-A", "key-B"})

		_, err := useCase.Lookup(ctx, "LG-TEST-0001", "first-term")
		require.NoError(t, err)
		auditRepo.wait(t)

		_, err = useCase.Lookup(ctx, "LG-TEST-0001", "second-term")
		require.NoError(t, err)
		auditRepo.wait(t)

		client.AssertExpectations(t)
	})
}

func TestLookupUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{}`)

	client := new(mockUpstreamClient)
	client.On("Lookup", mock.Anything, "01712345678", "key-A").Return(payload, nil).Once()
	auditRepo := newRecordingAuditRepository(nil)

	useCase := NewLookupUseCaseWithMetrics(
		newTestLookupUseCase(t, client, auditRepo, []string{"key-A"}),
		metrics.NewNoOpBusinessMetrics(),
	)

	output, err := useCase.Lookup(ctx, "LG-TEST-0001", "01712345678")
	require.NoError(t, err)
	assert.Equal(t, CacheStatusMiss, output.CacheStatus)
	auditRepo.wait(t)
}
