package models

import (
	"time"

	"github.com/google/uuid"
)

// ProviderCallEvent is the audit record of one provider invocation attempt.
// One event is written per distinct provider attempted during a turn, so a
// primary failure followed by a fallback success produces two events.
type ProviderCallEvent struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TenantID     uuid.UUID `json:"tenant_id" db:"tenant_id"`
	AgentID      uuid.UUID `json:"agent_id" db:"agent_id"`
	SessionID    uuid.UUID `json:"session_id" db:"session_id"`
	Provider     string    `json:"provider" db:"provider"`
	Success      bool      `json:"success" db:"success"`
	StatusCode   *int      `json:"status_code,omitempty" db:"status_code"`
	ErrorMessage *string   `json:"error_message,omitempty" db:"error_message"`
	LatencyMs    int64     `json:"latency_ms" db:"latency_ms"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the ProviderCallEvent model
func (ProviderCallEvent) TableName() string {
	return "provider_call_events"
}

// NewProviderCallEvent creates a new ProviderCallEvent instance
func NewProviderCallEvent(tenantID, agentID, sessionID uuid.UUID, provider string, success bool, latencyMs int64) *ProviderCallEvent {
	return &ProviderCallEvent{
		ID:        uuid.New(),
		TenantID:  tenantID,
		AgentID:   agentID,
		SessionID: sessionID,
		Provider:  provider,
		Success:   success,
		LatencyMs: latencyMs,
		CreatedAt: time.Now(),
	}
}

// WithError attaches failure details to the event
func (e *ProviderCallEvent) WithError(statusCode int, message string) *ProviderCallEvent {
	if statusCode != 0 {
		e.StatusCode = &statusCode
	}
	e.ErrorMessage = &message
	return e
}
