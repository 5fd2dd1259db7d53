package postgres

import (
	"context"
	"fmt"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProviderCallEventRepository implements repositories.ProviderCallEventRepository using PostgreSQL
type ProviderCallEventRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProviderCallEventRepository creates a new provider call event repository
func NewProviderCallEventRepository(db *DB, logger *zap.Logger) repositories.ProviderCallEventRepository {
	return &ProviderCallEventRepository{
		db:     db,
		logger: logger,
	}
}

// Create records one provider invocation attempt
func (r *ProviderCallEventRepository) Create(ctx context.Context, event *models.ProviderCallEvent) error {
	query := `
		INSERT INTO provider_call_events (id, tenant_id, agent_id, session_id, provider, success, status_code, error_message, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		event.ID,
		event.TenantID,
		event.AgentID,
		event.SessionID,
		event.Provider,
		event.Success,
		event.StatusCode,
		event.ErrorMessage,
		event.LatencyMs,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create provider call event: %w", err)
	}

	r.logger.Debug("provider call event created",
		zap.String("session_id", event.SessionID.String()),
		zap.String("provider", event.Provider),
		zap.Bool("success", event.Success),
	)
	return nil
}

// ListBySession retrieves call events for a session, oldest first
func (r *ProviderCallEventRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.ProviderCallEvent, error) {
	query := `
		SELECT id, tenant_id, agent_id, session_id, provider, success, status_code, error_message, latency_ms, created_at
		FROM provider_call_events
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider call events: %w", err)
	}
	defer rows.Close()

	var events []*models.ProviderCallEvent
	for rows.Next() {
		event := &models.ProviderCallEvent{}
		err := rows.Scan(
			&event.ID,
			&event.TenantID,
			&event.AgentID,
			&event.SessionID,
			&event.Provider,
			&event.Success,
			&event.StatusCode,
			&event.ErrorMessage,
			&event.LatencyMs,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider call event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating provider call events: %w", err)
	}

	return events, nil
}
