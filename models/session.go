package models

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one conversation between a customer and an agent
type Session struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	AgentID    uuid.UUID `json:"agent_id" db:"agent_id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Session model
func (Session) TableName() string {
	return "sessions"
}

// NewSession creates a new Session instance
func NewSession(tenantID, agentID uuid.UUID, customerID string) *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.New(),
		TenantID:   tenantID,
		AgentID:    agentID,
		CustomerID: customerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
