package conversation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/RushabhaJain/vocalbridge/services"
	"github.com/RushabhaJain/vocalbridge/services/dispatch"
	"github.com/RushabhaJain/vocalbridge/services/history"
	"github.com/RushabhaJain/vocalbridge/services/idempotency"
	"github.com/RushabhaJain/vocalbridge/services/normalizer"
	"github.com/RushabhaJain/vocalbridge/services/persistence"
	"go.uber.org/zap"
)

// Service orchestrates one conversation turn end to end: ownership checks,
// idempotent replay, history assembly, provider dispatch with fallback,
// response normalization, and atomic persistence.
type Service struct {
	sessions    repositories.SessionRepository
	agents      repositories.AgentRepository
	idempotency *idempotency.Service
	history     *history.Service
	dispatcher  *dispatch.Service
	normalizer  *normalizer.Service
	persistence *persistence.Service
	logger      *zap.Logger
}

// NewService creates a new conversation service
func NewService(
	sessions repositories.SessionRepository,
	agents repositories.AgentRepository,
	idempotencySvc *idempotency.Service,
	historySvc *history.Service,
	dispatcher *dispatch.Service,
	normalizerSvc *normalizer.Service,
	persistenceSvc *persistence.Service,
	logger *zap.Logger,
) *Service {
	return &Service{
		sessions:    sessions,
		agents:      agents,
		idempotency: idempotencySvc,
		history:     historySvc,
		dispatcher:  dispatcher,
		normalizer:  normalizerSvc,
		persistence: persistenceSvc,
		logger:      logger,
	}
}

// SendMessage processes one turn. Failed turns are never cached, so a
// client retrying with the same idempotency key gets a fresh attempt.
func (s *Service) SendMessage(ctx context.Context, req SendMessageRequest) (*TurnResult, error) {
	// Step 1: Validate input
	if strings.TrimSpace(req.Message) == "" {
		return nil, services.ErrEmptyMessage
	}

	// Step 2: Replay a cached result when the idempotency key has one. This
	// runs before any store lookup: a hit skips the session and agent loads
	// entirely, and the cache's own tenant-match rule scopes the record.
	if cached, hit := s.idempotency.Check(ctx, req.IdempotencyKey, req.TenantID); hit {
		result := &TurnResult{}
		if err := json.Unmarshal(cached, result); err != nil {
			s.logger.Warn("cached turn result is unreadable, recomputing",
				zap.String("key", req.IdempotencyKey),
				zap.Error(err))
		} else {
			s.logger.Info("turn replayed from idempotency cache",
				zap.String("session_id", req.SessionID.String()),
				zap.String("key", req.IdempotencyKey))
			return result, nil
		}
	}

	// Step 3: Load the session and verify tenant ownership
	session, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, services.WrapInternal("failed to load session", err)
	}
	if session == nil {
		return nil, services.ErrSessionNotFound
	}
	if session.TenantID != req.TenantID {
		return nil, services.ErrTenantMismatch
	}

	// Step 4: Load the agent configuration
	agent, err := s.agents.GetByID(ctx, session.AgentID, req.TenantID)
	if err != nil {
		return nil, services.WrapInternal("failed to load agent", err)
	}
	if agent == nil {
		return nil, services.ErrAgentNotFound
	}

	// Step 5: Assemble the conversation history
	turns, err := s.history.BuildHistory(ctx, req.SessionID, agent.SystemPrompt, req.Message)
	if err != nil {
		return nil, services.WrapInternal("failed to build conversation history", err)
	}

	// Step 6: Dispatch to the primary provider, falling back if configured
	fallback := ""
	if agent.FallbackProvider != nil {
		fallback = *agent.FallbackProvider
	}
	outcome, err := s.dispatcher.CallWithFallback(ctx, dispatch.Request{
		TenantID:         req.TenantID,
		AgentID:          agent.ID,
		SessionID:        req.SessionID,
		PrimaryProvider:  agent.PrimaryProvider,
		FallbackProvider: fallback,
		History:          turns,
		SystemPrompt:     agent.SystemPrompt,
	})
	if err != nil {
		return nil, err
	}

	// Step 7: Normalize the vendor-specific response shape. A successful
	// outcome with no response body is a provider fault, not a data defect.
	if outcome.Result == nil || outcome.Result.Response == nil {
		return nil, services.WrapExternal("provider returned an empty response", services.ErrProviderError)
	}
	normalized, err := s.normalizer.Normalize(outcome.Result.Response)
	if err != nil {
		return nil, err
	}

	// Step 8: Persist both messages and the usage event atomically
	persisted, err := s.persistence.PersistTurn(ctx, persistence.TurnRecord{
		TenantID:     req.TenantID,
		AgentID:      agent.ID,
		SessionID:    req.SessionID,
		UserMessage:  req.Message,
		AssistantMsg: normalized.Text,
		Provider:     outcome.Provider,
		TokensIn:     normalized.TokensIn,
		TokensOut:    normalized.TokensOut,
		LatencyMs:    outcome.Result.LatencyMs,
		UsedFallback: outcome.UsedFallback,
	})
	if err != nil {
		return nil, err
	}

	result := &TurnResult{
		AssistantMessage: normalized.Text,
		Provider:         outcome.Provider,
		TokensIn:         normalized.TokensIn,
		TokensOut:        normalized.TokensOut,
		Cost:             persisted.Cost,
		Metadata: TurnMetadata{
			LatencyMs:    outcome.Result.LatencyMs,
			UsedFallback: outcome.UsedFallback,
		},
	}

	// Step 9: Cache the successful result; cache failure never fails the turn
	if req.IdempotencyKey != "" {
		if raw, err := json.Marshal(result); err == nil {
			if err := s.idempotency.Store(ctx, req.IdempotencyKey, req.TenantID, raw); err != nil {
				s.logger.Warn("failed to cache turn result",
					zap.String("key", req.IdempotencyKey),
					zap.Error(err))
			}
		}
	}

	s.logger.Info("conversation turn completed",
		zap.String("session_id", req.SessionID.String()),
		zap.String("provider", outcome.Provider),
		zap.Bool("used_fallback", outcome.UsedFallback),
		zap.Float64("cost", result.Cost))

	return result, nil
}
