package persistence

import (
	"context"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/RushabhaJain/vocalbridge/services"
	"github.com/RushabhaJain/vocalbridge/services/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TurnRecord is everything a completed turn writes to storage
type TurnRecord struct {
	TenantID     uuid.UUID
	AgentID      uuid.UUID
	SessionID    uuid.UUID
	UserMessage  string
	AssistantMsg string
	Provider     string
	TokensIn     int
	TokensOut    int
	LatencyMs    int64
	UsedFallback bool
}

// PersistedTurn is what came out of persisting a turn
type PersistedTurn struct {
	UserMessage      *models.Message
	AssistantMessage *models.Message
	Cost             float64
}

// Service writes completed conversation turns. Both messages and the usage
// event land in one transaction so a turn is never half-recorded. Cost is
// computed here from the price table, never accepted from the caller.
type Service struct {
	txm      repositories.TransactionManager
	messages repositories.MessageRepository
	usage    repositories.UsageEventRepository
	sessions repositories.SessionRepository
	logger   *zap.Logger
}

// NewService creates a new persistence service
func NewService(
	txm repositories.TransactionManager,
	messages repositories.MessageRepository,
	usage repositories.UsageEventRepository,
	sessions repositories.SessionRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		txm:      txm,
		messages: messages,
		usage:    usage,
		sessions: sessions,
		logger:   logger,
	}
}

// PersistTurn stores the user message, the assistant message with its
// metadata, and the usage event atomically, then bumps the session
func (s *Service) PersistTurn(ctx context.Context, record TurnRecord) (*PersistedTurn, error) {
	cost := pricing.CalculateCost(record.Provider, record.TokensIn, record.TokensOut)

	userMsg := models.NewMessage(record.SessionID, models.RoleUser, record.UserMessage)
	assistantMsg := models.NewMessage(record.SessionID, models.RoleAssistant, record.AssistantMsg).
		WithMetadata(models.MessageMetadata{
			Provider:     record.Provider,
			TokensIn:     record.TokensIn,
			TokensOut:    record.TokensOut,
			Cost:         cost,
			LatencyMs:    record.LatencyMs,
			UsedFallback: record.UsedFallback,
		})
	usageEvent := models.NewUsageEvent(
		record.TenantID,
		record.AgentID,
		record.SessionID,
		record.Provider,
		record.TokensIn,
		record.TokensOut,
		cost,
	)

	err := s.txm.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := s.messages.Create(txCtx, userMsg); err != nil {
			return err
		}
		if err := s.messages.Create(txCtx, assistantMsg); err != nil {
			return err
		}
		if err := s.usage.Create(txCtx, usageEvent); err != nil {
			return err
		}
		return s.sessions.Touch(txCtx, record.SessionID)
	})
	if err != nil {
		return nil, services.WrapInternal("failed to persist conversation turn", err)
	}

	s.logger.Debug("conversation turn persisted",
		zap.String("session_id", record.SessionID.String()),
		zap.String("provider", record.Provider),
		zap.Float64("cost", cost))

	return &PersistedTurn{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Cost:             cost,
	}, nil
}
