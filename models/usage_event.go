package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageEvent records token consumption and cost for one completed
// conversation turn, used for billing and analytics
type UsageEvent struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	AgentID   uuid.UUID `json:"agent_id" db:"agent_id"`
	SessionID uuid.UUID `json:"session_id" db:"session_id"`
	Provider  string    `json:"provider" db:"provider"`
	TokensIn  int       `json:"tokens_in" db:"tokens_in"`
	TokensOut int       `json:"tokens_out" db:"tokens_out"`
	Cost      float64   `json:"cost" db:"cost"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the UsageEvent model
func (UsageEvent) TableName() string {
	return "usage_events"
}

// NewUsageEvent creates a new UsageEvent instance
func NewUsageEvent(tenantID, agentID, sessionID uuid.UUID, provider string, tokensIn, tokensOut int, cost float64) *UsageEvent {
	return &UsageEvent{
		ID:        uuid.New(),
		TenantID:  tenantID,
		AgentID:   agentID,
		SessionID: sessionID,
		Provider:  provider,
		TokensIn:  tokensIn,
		TokensOut: tokensOut,
		Cost:      cost,
		CreatedAt: time.Now(),
	}
}

// UsageSummary aggregates usage events for reporting
type UsageSummary struct {
	TotalEvents    int     `json:"total_events"`
	TotalTokensIn  int     `json:"total_tokens_in"`
	TotalTokensOut int     `json:"total_tokens_out"`
	TotalCost      float64 `json:"total_cost"`
}
