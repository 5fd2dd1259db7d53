package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRepository implements repositories.SessionRepository using PostgreSQL
type SessionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB, logger *zap.Logger) repositories.SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, tenant_id, agent_id, customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		session.ID,
		session.TenantID,
		session.AgentID,
		session.CustomerID,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.Debug("session created",
		zap.String("session_id", session.ID.String()),
		zap.String("agent_id", session.AgentID.String()),
	)
	return nil
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := `
		SELECT id, tenant_id, agent_id, customer_id, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	session := &models.Session{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.TenantID,
		&session.AgentID,
		&session.CustomerID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// ListByTenant retrieves sessions owned by a tenant with pagination
func (r *SessionRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Session, error) {
	query := `
		SELECT id, tenant_id, agent_id, customer_id, created_at, updated_at
		FROM sessions
		WHERE tenant_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session := &models.Session{}
		err := rows.Scan(
			&session.ID,
			&session.TenantID,
			&session.AgentID,
			&session.CustomerID,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// Touch updates the session's updated_at timestamp
func (r *SessionRepository) Touch(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE sessions SET updated_at = $1 WHERE id = $2`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session not found: %s", id)
	}

	return nil
}
