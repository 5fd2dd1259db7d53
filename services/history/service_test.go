package history

import (
	"context"
	"errors"
	"testing"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMessageRepo struct {
	messages []*models.Message
	listErr  error
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *models.Message) error {
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.messages, nil
}

func TestBuildHistory_EmptySession(t *testing.T) {
	svc := NewService(&fakeMessageRepo{}, zap.NewNop())

	turns, err := svc.BuildHistory(context.Background(), uuid.New(), "", "first message")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "first message", turns[0].Content)
}

func TestBuildHistory_PrependsSystemPrompt(t *testing.T) {
	sessionID := uuid.New()
	repo := &fakeMessageRepo{messages: []*models.Message{
		models.NewMessage(sessionID, models.RoleUser, "hello"),
	}}
	svc := NewService(repo, zap.NewNop())

	turns, err := svc.BuildHistory(context.Background(), sessionID, "You are helpful.", "next")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "system", turns[0].Role)
	assert.Equal(t, "You are helpful.", turns[0].Content)
	assert.Equal(t, "hello", turns[1].Content)
	assert.Equal(t, "next", turns[2].Content)
}

func TestBuildHistory_AppendsAfterStoredTurns(t *testing.T) {
	sessionID := uuid.New()
	repo := &fakeMessageRepo{messages: []*models.Message{
		models.NewMessage(sessionID, models.RoleUser, "hello"),
		models.NewMessage(sessionID, models.RoleAssistant, "hi, how can I help?"),
	}}
	svc := NewService(repo, zap.NewNop())

	turns, err := svc.BuildHistory(context.Background(), sessionID, "", "what about pricing?")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, "assistant", turns[1].Role)
	assert.Equal(t, "what about pricing?", turns[2].Content)
}

func TestBuildHistory_StoredSystemRowsYieldToConfiguredPrompt(t *testing.T) {
	sessionID := uuid.New()
	repo := &fakeMessageRepo{messages: []*models.Message{
		models.NewMessage(sessionID, models.RoleSystem, "stale stored prompt"),
		models.NewMessage(sessionID, models.RoleUser, "hello"),
	}}
	svc := NewService(repo, zap.NewNop())

	turns, err := svc.BuildHistory(context.Background(), sessionID, "current prompt", "next")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "system", turns[0].Role)
	assert.Equal(t, "current prompt", turns[0].Content)
	assert.Equal(t, "hello", turns[1].Content)
}

func TestBuildHistory_RepositoryError(t *testing.T) {
	repo := &fakeMessageRepo{listErr: errors.New("db down")}
	svc := NewService(repo, zap.NewNop())

	turns, err := svc.BuildHistory(context.Background(), uuid.New(), "", "msg")
	assert.Error(t, err)
	assert.Nil(t, turns)
}
