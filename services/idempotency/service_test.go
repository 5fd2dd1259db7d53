package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRepo is an in-memory IdempotencyKeyRepository
type fakeRepo struct {
	mu      sync.Mutex
	records map[string]*models.IdempotencyKey
	findErr error
	saveErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]*models.IdempotencyKey)}
}

func (f *fakeRepo) FindByKey(ctx context.Context, key string) (*models.IdempotencyKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.records[key], nil
}

func (f *fakeRepo) Upsert(ctx context.Context, record *models.IdempotencyKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[record.Key] = record
	return nil
}

func (f *fakeRepo) DeleteExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for key, record := range f.records {
		if time.Now().After(record.ExpiresAt) {
			delete(f.records, key)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeRepo) get(key string) (*models.IdempotencyKey, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[key]
	return record, ok
}

func (f *fakeRepo) put(record *models.IdempotencyKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.Key] = record
}

func TestService_StoreThenCheck(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	tenantID := uuid.New()
	response := json.RawMessage(`{"assistant_message":"hello"}`)

	err := svc.Store(context.Background(), "turn-1", tenantID, response)
	require.NoError(t, err)

	got, hit := svc.Check(context.Background(), "turn-1", tenantID)
	assert.True(t, hit)
	assert.JSONEq(t, string(response), string(got))
}

func TestService_EmptyKeyIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	tenantID := uuid.New()

	err := svc.Store(context.Background(), "", tenantID, json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Empty(t, repo.records)

	_, hit := svc.Check(context.Background(), "", tenantID)
	assert.False(t, hit)
}

func TestService_TenantMismatchIsMiss(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	owner := uuid.New()

	err := svc.Store(context.Background(), "turn-1", owner, json.RawMessage(`{"ok":true}`))
	require.NoError(t, err)

	_, hit := svc.Check(context.Background(), "turn-1", uuid.New())
	assert.False(t, hit)

	// the owner still gets the hit
	_, hit = svc.Check(context.Background(), "turn-1", owner)
	assert.True(t, hit)
}

func TestService_ExpiredRecordIsMiss(t *testing.T) {
	repo := newFakeRepo()
	svc := NewServiceWithTTL(repo, time.Hour, zap.NewNop())
	tenantID := uuid.New()

	record := models.NewIdempotencyKey("turn-1", tenantID, json.RawMessage(`{}`), time.Hour)
	record.ExpiresAt = time.Now().Add(-time.Minute)
	repo.records["turn-1"] = record

	_, hit := svc.Check(context.Background(), "turn-1", tenantID)
	assert.False(t, hit)
}

func TestService_LookupFailureDegradesToMiss(t *testing.T) {
	repo := newFakeRepo()
	repo.findErr = errors.New("connection refused")
	svc := NewService(repo, zap.NewNop())

	_, hit := svc.Check(context.Background(), "turn-1", uuid.New())
	assert.False(t, hit)
}

func TestService_StoreOverwritesExisting(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	tenantID := uuid.New()

	require.NoError(t, svc.Store(context.Background(), "turn-1", tenantID, json.RawMessage(`{"v":1}`)))
	require.NoError(t, svc.Store(context.Background(), "turn-1", tenantID, json.RawMessage(`{"v":2}`)))

	got, hit := svc.Check(context.Background(), "turn-1", tenantID)
	require.True(t, hit)
	assert.JSONEq(t, `{"v":2}`, string(got))
}
