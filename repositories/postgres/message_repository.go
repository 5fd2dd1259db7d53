package postgres

import (
	"context"
	"fmt"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageRepository implements repositories.MessageRepository using PostgreSQL
type MessageRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB, logger *zap.Logger) repositories.MessageRepository {
	return &MessageRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a message to a session
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (id, session_id, role, content, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	// nil RawMessage must land as SQL NULL, not the string "null"
	var metadata interface{}
	if len(message.Metadata) > 0 {
		metadata = []byte(message.Metadata)
	}

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		message.ID,
		message.SessionID,
		message.Role,
		message.Content,
		metadata,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	r.logger.Debug("message created",
		zap.String("message_id", message.ID.String()),
		zap.String("session_id", message.SessionID.String()),
		zap.String("role", string(message.Role)),
	)
	return nil
}

// ListBySession retrieves all messages of a session, oldest first
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.Message, error) {
	query := `
		SELECT id, session_id, role, content, metadata, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		message := &models.Message{}
		var metadata []byte
		err := rows.Scan(
			&message.ID,
			&message.SessionID,
			&message.Role,
			&message.Content,
			&metadata,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if len(metadata) > 0 {
			message.Metadata = metadata
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
