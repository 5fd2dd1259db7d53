package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Agent represents a configured conversational agent owned by a tenant.
// PrimaryProvider is always consulted first; FallbackProvider (when set)
// is only attempted after the primary fails.
type Agent struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	TenantID         uuid.UUID      `json:"tenant_id" db:"tenant_id"`
	Name             string         `json:"name" db:"name"`
	PrimaryProvider  string         `json:"primary_provider" db:"primary_provider"`
	FallbackProvider *string        `json:"fallback_provider,omitempty" db:"fallback_provider"`
	SystemPrompt     string         `json:"system_prompt" db:"system_prompt"`
	EnabledTools     pq.StringArray `json:"enabled_tools" db:"enabled_tools"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Agent model
func (Agent) TableName() string {
	return "agents"
}

// NewAgent creates a new Agent instance
func NewAgent(tenantID uuid.UUID, name, primaryProvider, systemPrompt string) *Agent {
	now := time.Now()
	return &Agent{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Name:            name,
		PrimaryProvider: primaryProvider,
		SystemPrompt:    systemPrompt,
		EnabledTools:    pq.StringArray{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// WithFallback sets the fallback provider
func (a *Agent) WithFallback(provider string) *Agent {
	a.FallbackProvider = &provider
	return a
}

// HasFallback reports whether a fallback provider is configured
func (a *Agent) HasFallback() bool {
	return a.FallbackProvider != nil && *a.FallbackProvider != ""
}
