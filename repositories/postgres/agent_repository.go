package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// AgentRepository implements repositories.AgentRepository using PostgreSQL
type AgentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db *DB, logger *zap.Logger) repositories.AgentRepository {
	return &AgentRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new agent
func (r *AgentRepository) Create(ctx context.Context, agent *models.Agent) error {
	query := `
		INSERT INTO agents (id, tenant_id, name, primary_provider, fallback_provider, system_prompt, enabled_tools, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		agent.ID,
		agent.TenantID,
		agent.Name,
		agent.PrimaryProvider,
		agent.FallbackProvider,
		agent.SystemPrompt,
		pq.Array(agent.EnabledTools),
		agent.CreatedAt,
		agent.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	r.logger.Debug("agent created",
		zap.String("agent_id", agent.ID.String()),
		zap.String("tenant_id", agent.TenantID.String()),
	)
	return nil
}

// GetByID retrieves an agent scoped to a tenant.
// Returns nil, nil when no matching agent exists.
func (r *AgentRepository) GetByID(ctx context.Context, id, tenantID uuid.UUID) (*models.Agent, error) {
	query := `
		SELECT id, tenant_id, name, primary_provider, fallback_provider, system_prompt, enabled_tools, created_at, updated_at
		FROM agents
		WHERE id = $1 AND tenant_id = $2
	`

	executor := GetExecutor(ctx, r.db)
	agent := &models.Agent{}
	err := executor.QueryRowContext(ctx, query, id, tenantID).Scan(
		&agent.ID,
		&agent.TenantID,
		&agent.Name,
		&agent.PrimaryProvider,
		&agent.FallbackProvider,
		&agent.SystemPrompt,
		pq.Array(&agent.EnabledTools),
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	return agent, nil
}

// ListByTenant retrieves all agents owned by a tenant
func (r *AgentRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Agent, error) {
	query := `
		SELECT id, tenant_id, name, primary_provider, fallback_provider, system_prompt, enabled_tools, created_at, updated_at
		FROM agents
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []*models.Agent
	for rows.Next() {
		agent := &models.Agent{}
		err := rows.Scan(
			&agent.ID,
			&agent.TenantID,
			&agent.Name,
			&agent.PrimaryProvider,
			&agent.FallbackProvider,
			&agent.SystemPrompt,
			pq.Array(&agent.EnabledTools),
			&agent.CreatedAt,
			&agent.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, agent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agents: %w", err)
	}

	return agents, nil
}

// Update updates an agent
func (r *AgentRepository) Update(ctx context.Context, agent *models.Agent) error {
	query := `
		UPDATE agents
		SET name = $1, primary_provider = $2, fallback_provider = $3, system_prompt = $4, enabled_tools = $5, updated_at = $6
		WHERE id = $7 AND tenant_id = $8
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		agent.Name,
		agent.PrimaryProvider,
		agent.FallbackProvider,
		agent.SystemPrompt,
		pq.Array(agent.EnabledTools),
		agent.UpdatedAt,
		agent.ID,
		agent.TenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update agent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("agent not found: %s", agent.ID)
	}

	r.logger.Debug("agent updated", zap.String("agent_id", agent.ID.String()))
	return nil
}

// Delete deletes an agent
func (r *AgentRepository) Delete(ctx context.Context, id, tenantID uuid.UUID) error {
	query := `DELETE FROM agents WHERE id = $1 AND tenant_id = $2`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("agent not found: %s", id)
	}

	r.logger.Debug("agent deleted", zap.String("agent_id", id.String()))
	return nil
}
