package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UsageEventRepository implements repositories.UsageEventRepository using PostgreSQL
type UsageEventRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUsageEventRepository creates a new usage event repository
func NewUsageEventRepository(db *DB, logger *zap.Logger) repositories.UsageEventRepository {
	return &UsageEventRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a usage event
func (r *UsageEventRepository) Create(ctx context.Context, event *models.UsageEvent) error {
	query := `
		INSERT INTO usage_events (id, tenant_id, agent_id, session_id, provider, tokens_in, tokens_out, cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		event.ID,
		event.TenantID,
		event.AgentID,
		event.SessionID,
		event.Provider,
		event.TokensIn,
		event.TokensOut,
		event.Cost,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create usage event: %w", err)
	}

	r.logger.Debug("usage event created",
		zap.String("tenant_id", event.TenantID.String()),
		zap.String("provider", event.Provider),
		zap.Float64("cost", event.Cost),
	)
	return nil
}

// ListByTenant retrieves usage events for a tenant within a time range
func (r *UsageEventRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*models.UsageEvent, error) {
	query := `
		SELECT id, tenant_id, agent_id, session_id, provider, tokens_in, tokens_out, cost, created_at
		FROM usage_events
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage events: %w", err)
	}
	defer rows.Close()

	var events []*models.UsageEvent
	for rows.Next() {
		event := &models.UsageEvent{}
		err := rows.Scan(
			&event.ID,
			&event.TenantID,
			&event.AgentID,
			&event.SessionID,
			&event.Provider,
			&event.TokensIn,
			&event.TokensOut,
			&event.Cost,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage events: %w", err)
	}

	return events, nil
}

// SummaryByTenant aggregates usage for a tenant within a time range
func (r *UsageEventRepository) SummaryByTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*models.UsageSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(tokens_in), 0), COALESCE(SUM(tokens_out), 0), COALESCE(SUM(cost), 0)
		FROM usage_events
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
	`

	executor := GetExecutor(ctx, r.db)
	summary := &models.UsageSummary{}
	err := executor.QueryRowContext(ctx, query, tenantID, from, to).Scan(
		&summary.TotalEvents,
		&summary.TotalTokensIn,
		&summary.TotalTokensOut,
		&summary.TotalCost,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage: %w", err)
	}

	return summary, nil
}
