package idempotency

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTTL is how long cached turn results remain replayable
const DefaultTTL = 24 * time.Hour

// Service is the idempotency cache over conversation turns. An empty key
// disables caching for the call. Only successful turn results are ever
// stored; a failed turn leaves the key unset so the client can safely retry
// with the same key.
type Service struct {
	repo   repositories.IdempotencyKeyRepository
	logger *zap.Logger
	ttl    time.Duration
}

// NewService creates an idempotency service with the default TTL
func NewService(repo repositories.IdempotencyKeyRepository, logger *zap.Logger) *Service {
	return NewServiceWithTTL(repo, DefaultTTL, logger)
}

// NewServiceWithTTL creates an idempotency service with a custom TTL
func NewServiceWithTTL(repo repositories.IdempotencyKeyRepository, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		repo:   repo,
		logger: logger,
		ttl:    ttl,
	}
}

// Check looks up a cached response for the key. Returns the stored response
// and true on a hit. Misses include: empty key, absent record, expired
// record, and tenant mismatch. Store failures degrade to a miss so a broken
// cache never blocks the request path.
func (s *Service) Check(ctx context.Context, key string, tenantID uuid.UUID) (json.RawMessage, bool) {
	if key == "" {
		return nil, false
	}

	record, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		s.logger.Warn("idempotency lookup failed, treating as miss",
			zap.String("key", key),
			zap.Error(err))
		return nil, false
	}
	if record == nil {
		return nil, false
	}

	if time.Now().After(record.ExpiresAt) {
		return nil, false
	}

	if record.TenantID != tenantID {
		s.logger.Warn("idempotency key held by another tenant, treating as miss",
			zap.String("key", key),
			zap.String("tenant_id", tenantID.String()))
		return nil, false
	}

	s.logger.Debug("idempotency cache hit", zap.String("key", key))
	return record.Response, true
}

// Store caches a successful turn result under the key. No-op when the key
// is empty. Overwrites any existing record for the key.
func (s *Service) Store(ctx context.Context, key string, tenantID uuid.UUID, response json.RawMessage) error {
	if key == "" {
		return nil
	}

	record := models.NewIdempotencyKey(key, tenantID, response, s.ttl)
	if err := s.repo.Upsert(ctx, record); err != nil {
		return err
	}

	s.logger.Debug("idempotency result cached",
		zap.String("key", key),
		zap.Time("expires_at", record.ExpiresAt))
	return nil
}

// PurgeExpired removes expired records from the backing store
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}
