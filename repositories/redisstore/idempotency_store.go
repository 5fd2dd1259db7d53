package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "idempotency:"

// IdempotencyStore implements repositories.IdempotencyKeyRepository on Redis.
// Expiry is enforced natively via key TTLs, so DeleteExpired has nothing to
// reap and always reports zero.
type IdempotencyStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewIdempotencyStore creates a Redis-backed idempotency store
func NewIdempotencyStore(client *redis.Client, logger *zap.Logger) repositories.IdempotencyKeyRepository {
	return &IdempotencyStore{
		client: client,
		logger: logger,
	}
}

// NewClient creates a Redis client and verifies connectivity
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// FindByKey retrieves a record by key. Returns nil, nil when absent or expired.
func (s *IdempotencyStore) FindByKey(ctx context.Context, key string) (*models.IdempotencyKey, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	record := &models.IdempotencyKey{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("failed to decode idempotency record: %w", err)
	}

	return record, nil
}

// Upsert creates or overwrites the record for the key, with a TTL derived
// from the record's expiry. Last write wins.
func (s *IdempotencyStore) Upsert(ctx context.Context, record *models.IdempotencyKey) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode idempotency record: %w", err)
	}

	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, keyPrefix+record.Key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}

	s.logger.Debug("idempotency key stored",
		zap.String("key", record.Key),
		zap.Duration("ttl", ttl),
	)
	return nil
}

// DeleteExpired is a no-op; Redis evicts expired keys itself
func (s *IdempotencyStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
