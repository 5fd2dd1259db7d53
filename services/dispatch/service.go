package dispatch

import (
	"context"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/RushabhaJain/vocalbridge/services"
	"github.com/RushabhaJain/vocalbridge/services/providers"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Request describes one dispatch: which providers to try, for whom, with
// what conversation
type Request struct {
	TenantID         uuid.UUID
	AgentID          uuid.UUID
	SessionID        uuid.UUID
	PrimaryProvider  string
	FallbackProvider string // empty when no fallback is configured
	History          []providers.ChatTurn
	SystemPrompt     string
}

// Outcome is a successful dispatch. UsedFallback is true only when the
// returned result actually came from the fallback provider.
type Outcome struct {
	Provider     string
	UsedFallback bool
	Result       *providers.CallResult
}

// Service routes a conversation turn to the primary provider and, when the
// primary fails after retries, to the configured fallback. One
// ProviderCallEvent is recorded per distinct provider attempted; retries
// within a provider collapse into that provider's single event.
type Service struct {
	registry   *providers.Registry
	callConfig providers.CallConfig
	events     repositories.ProviderCallEventRepository
	logger     *zap.Logger
}

// NewService creates a new dispatch service
func NewService(
	registry *providers.Registry,
	callConfig providers.CallConfig,
	events repositories.ProviderCallEventRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		registry:   registry,
		callConfig: callConfig,
		events:     events,
		logger:     logger,
	}
}

// CallWithFallback executes the dispatch. The primary is always attempted
// first through the retry wrapper. The fallback runs only after the primary
// has exhausted its retries. When both fail, the last failure's message is
// attached to ErrProviderUnavailable.
func (s *Service) CallWithFallback(ctx context.Context, req Request) (*Outcome, error) {
	primary, err := s.registry.Get(req.PrimaryProvider)
	if err != nil {
		return nil, services.WrapError(services.ErrorTypeValidation, "invalid provider specified", err)
	}

	result := s.callProvider(ctx, primary, req)
	if result.Success {
		return &Outcome{
			Provider:     req.PrimaryProvider,
			UsedFallback: false,
			Result:       result,
		}, nil
	}

	lastFailure := result

	if req.FallbackProvider != "" {
		fallback, err := s.registry.Get(req.FallbackProvider)
		if err != nil {
			s.logger.Error("fallback provider not registered",
				zap.String("provider", req.FallbackProvider),
				zap.Error(err))
		} else {
			s.logger.Warn("primary provider failed, trying fallback",
				zap.String("primary", req.PrimaryProvider),
				zap.String("fallback", req.FallbackProvider))

			result = s.callProvider(ctx, fallback, req)
			if result.Success {
				return &Outcome{
					Provider:     req.FallbackProvider,
					UsedFallback: true,
					Result:       result,
				}, nil
			}
			lastFailure = result
		}
	}

	message := "provider call failed"
	if lastFailure.Error != nil {
		message = lastFailure.Error.Message
	}
	return nil, services.WrapExternal(message, services.ErrProviderUnavailable)
}

// callProvider runs one provider through the retry wrapper and records the
// audit event. Event write failures are logged, never surfaced; audit must
// not break the request path.
func (s *Service) callProvider(ctx context.Context, adapter providers.VendorAdapter, req Request) *providers.CallResult {
	caller := providers.NewRetryingCaller(adapter, s.callConfig, s.logger)
	result := caller.Call(ctx, req.History, req.SystemPrompt)

	event := models.NewProviderCallEvent(
		req.TenantID,
		req.AgentID,
		req.SessionID,
		adapter.Name(),
		result.Success,
		result.LatencyMs,
	)
	if !result.Success && result.Error != nil {
		event.WithError(result.Error.StatusCode, result.Error.Message)
	}

	if err := s.events.Create(ctx, event); err != nil {
		s.logger.Warn("failed to record provider call event",
			zap.String("provider", adapter.Name()),
			zap.Error(err))
	}

	return result
}
