package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/RushabhaJain/vocalbridge/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// passthroughTxm runs the function without a real transaction
type passthroughTxm struct{}

func (passthroughTxm) Begin(ctx context.Context) (repositories.Transaction, error) {
	return noopTx{ctx: ctx}, nil
}

func (passthroughTxm) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return fn(ctx, noopTx{ctx: ctx})
}

type noopTx struct{ ctx context.Context }

func (noopTx) Commit() error              { return nil }
func (noopTx) Rollback() error            { return nil }
func (t noopTx) Context() context.Context { return t.ctx }

type fakeMessageRepo struct {
	created   []*models.Message
	createErr error
}

func (f *fakeMessageRepo) Create(ctx context.Context, m *models.Message) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMessageRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.Message, error) {
	return f.created, nil
}

type fakeUsageRepo struct {
	created []*models.UsageEvent
}

func (f *fakeUsageRepo) Create(ctx context.Context, e *models.UsageEvent) error {
	f.created = append(f.created, e)
	return nil
}

func (f *fakeUsageRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*models.UsageEvent, error) {
	return f.created, nil
}

func (f *fakeUsageRepo) SummaryByTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*models.UsageSummary, error) {
	return &models.UsageSummary{}, nil
}

type fakeSessionRepo struct {
	touched []uuid.UUID
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *models.Session) error { return nil }
func (f *fakeSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return nil, nil
}
func (f *fakeSessionRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Session, error) {
	return nil, nil
}
func (f *fakeSessionRepo) Touch(ctx context.Context, id uuid.UUID) error {
	f.touched = append(f.touched, id)
	return nil
}

func testRecord() TurnRecord {
	return TurnRecord{
		TenantID:     uuid.New(),
		AgentID:      uuid.New(),
		SessionID:    uuid.New(),
		UserMessage:  "how much is shipping?",
		AssistantMsg: "shipping is free over $50",
		Provider:     "vendorA",
		TokensIn:     1000,
		TokensOut:    2000,
		LatencyMs:    321,
		UsedFallback: true,
	}
}

func TestPersistTurn(t *testing.T) {
	messages := &fakeMessageRepo{}
	usage := &fakeUsageRepo{}
	sessions := &fakeSessionRepo{}
	svc := NewService(passthroughTxm{}, messages, usage, sessions, zap.NewNop())

	record := testRecord()
	persisted, err := svc.PersistTurn(context.Background(), record)
	require.NoError(t, err)

	require.Len(t, messages.created, 2)
	assert.Equal(t, models.RoleUser, messages.created[0].Role)
	assert.Equal(t, record.UserMessage, messages.created[0].Content)
	assert.Equal(t, models.RoleAssistant, messages.created[1].Role)
	assert.Equal(t, record.AssistantMsg, messages.created[1].Content)

	var meta models.MessageMetadata
	require.NoError(t, json.Unmarshal(messages.created[1].Metadata, &meta))
	assert.Equal(t, "vendorA", meta.Provider)
	assert.Equal(t, 1000, meta.TokensIn)
	assert.Equal(t, 2000, meta.TokensOut)
	assert.InDelta(t, 0.006, meta.Cost, 1e-9)
	assert.Equal(t, int64(321), meta.LatencyMs)
	assert.True(t, meta.UsedFallback)

	require.Len(t, usage.created, 1)
	assert.InDelta(t, 0.006, usage.created[0].Cost, 1e-9)
	assert.Equal(t, record.TenantID, usage.created[0].TenantID)

	require.Len(t, sessions.touched, 1)
	assert.Equal(t, record.SessionID, sessions.touched[0])

	assert.InDelta(t, 0.006, persisted.Cost, 1e-9)
	assert.NotNil(t, persisted.AssistantMessage)
}

func TestPersistTurn_UnknownProviderCostsNothing(t *testing.T) {
	usage := &fakeUsageRepo{}
	svc := NewService(passthroughTxm{}, &fakeMessageRepo{}, usage, &fakeSessionRepo{}, zap.NewNop())

	record := testRecord()
	record.Provider = "vendorC"
	persisted, err := svc.PersistTurn(context.Background(), record)
	require.NoError(t, err)
	assert.Zero(t, persisted.Cost)
	assert.Zero(t, usage.created[0].Cost)
}

func TestPersistTurn_WriteFailureWrapped(t *testing.T) {
	messages := &fakeMessageRepo{createErr: errors.New("disk full")}
	svc := NewService(passthroughTxm{}, messages, &fakeUsageRepo{}, &fakeSessionRepo{}, zap.NewNop())

	persisted, err := svc.PersistTurn(context.Background(), testRecord())
	require.Error(t, err)
	assert.Nil(t, persisted)
	assert.True(t, services.IsInternalError(err))
}
