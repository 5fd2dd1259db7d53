package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey maps a caller-supplied key to a previously computed turn
// result. Lookup is by key alone; TenantID is stored for ownership
// validation, not as part of the key. ExpiresAt is advisory: this service
// writes it, a background reaper enforces it.
type IdempotencyKey struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Key       string          `json:"key" db:"key"`
	TenantID  uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Response  json.RawMessage `json:"response" db:"response"`
	ExpiresAt time.Time       `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the IdempotencyKey model
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// NewIdempotencyKey creates a new IdempotencyKey instance
func NewIdempotencyKey(key string, tenantID uuid.UUID, response json.RawMessage, ttl time.Duration) *IdempotencyKey {
	now := time.Now()
	return &IdempotencyKey{
		ID:        uuid.New(),
		Key:       key,
		TenantID:  tenantID,
		Response:  response,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}
