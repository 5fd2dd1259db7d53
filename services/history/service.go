package history

import (
	"context"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/RushabhaJain/vocalbridge/services/providers"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service assembles the conversation history sent to providers
type Service struct {
	messages repositories.MessageRepository
	logger   *zap.Logger
}

// NewService creates a new history service
func NewService(messages repositories.MessageRepository, logger *zap.Logger) *Service {
	return &Service{
		messages: messages,
		logger:   logger,
	}
}

// BuildHistory assembles the turn list sent to providers: the agent's system
// prompt first when one is configured, then the session's stored turns oldest
// first, then the incoming user message. Stored system rows are excluded so
// the configured prompt is the only system turn.
func (s *Service) BuildHistory(ctx context.Context, sessionID uuid.UUID, systemPrompt, userMessage string) ([]providers.ChatTurn, error) {
	stored, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	turns := make([]providers.ChatTurn, 0, len(stored)+2)
	if systemPrompt != "" {
		turns = append(turns, providers.ChatTurn{
			Role:    string(models.RoleSystem),
			Content: systemPrompt,
		})
	}
	for _, msg := range stored {
		if msg.Role == models.RoleSystem {
			continue
		}
		turns = append(turns, providers.ChatTurn{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	turns = append(turns, providers.ChatTurn{
		Role:    string(models.RoleUser),
		Content: userMessage,
	})

	s.logger.Debug("conversation history built",
		zap.String("session_id", sessionID.String()),
		zap.Int("turns", len(turns)))
	return turns, nil
}
