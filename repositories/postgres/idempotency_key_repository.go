package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"go.uber.org/zap"
)

// IdempotencyKeyRepository implements repositories.IdempotencyKeyRepository using PostgreSQL
type IdempotencyKeyRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewIdempotencyKeyRepository creates a new idempotency key repository
func NewIdempotencyKeyRepository(db *DB, logger *zap.Logger) repositories.IdempotencyKeyRepository {
	return &IdempotencyKeyRepository{
		db:     db,
		logger: logger,
	}
}

// FindByKey retrieves a record by key. Returns nil, nil when absent.
func (r *IdempotencyKeyRepository) FindByKey(ctx context.Context, key string) (*models.IdempotencyKey, error) {
	query := `
		SELECT id, key, tenant_id, response, expires_at, created_at
		FROM idempotency_keys
		WHERE key = $1
	`

	executor := GetExecutor(ctx, r.db)
	record := &models.IdempotencyKey{}
	var response []byte
	err := executor.QueryRowContext(ctx, query, key).Scan(
		&record.ID,
		&record.Key,
		&record.TenantID,
		&response,
		&record.ExpiresAt,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find idempotency key: %w", err)
	}
	record.Response = response

	return record, nil
}

// Upsert creates or overwrites the record for the key.
// Concurrent writers for the same key race; the last write wins.
func (r *IdempotencyKeyRepository) Upsert(ctx context.Context, record *models.IdempotencyKey) error {
	query := `
		INSERT INTO idempotency_keys (id, key, tenant_id, response, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE
		SET tenant_id = EXCLUDED.tenant_id,
		    response = EXCLUDED.response,
		    expires_at = EXCLUDED.expires_at,
		    created_at = EXCLUDED.created_at
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		record.ID,
		record.Key,
		record.TenantID,
		[]byte(record.Response),
		record.ExpiresAt,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert idempotency key: %w", err)
	}

	r.logger.Debug("idempotency key stored",
		zap.String("key", record.Key),
		zap.String("tenant_id", record.TenantID.String()),
	)
	return nil
}

// DeleteExpired removes records past their expiry, returning the count
func (r *IdempotencyKeyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM idempotency_keys WHERE expires_at < CURRENT_TIMESTAMP`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired idempotency keys: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if deleted > 0 {
		r.logger.Debug("expired idempotency keys deleted", zap.Int64("count", deleted))
	}
	return deleted, nil
}
