package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies the author of a conversation turn
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message represents one persisted conversation turn within a session.
// Assistant turns carry provider/token/cost metadata as JSONB.
type Message struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	SessionID uuid.UUID       `json:"session_id" db:"session_id"`
	Role      MessageRole     `json:"role" db:"role"`
	Content   string          `json:"content" db:"content"`
	Metadata  json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// MessageMetadata is the structured metadata stored with assistant messages
type MessageMetadata struct {
	Provider     string  `json:"provider,omitempty"`
	TokensIn     int     `json:"tokens_in,omitempty"`
	TokensOut    int     `json:"tokens_out,omitempty"`
	Cost         float64 `json:"cost,omitempty"`
	LatencyMs    int64   `json:"latency_ms,omitempty"`
	UsedFallback bool    `json:"used_fallback,omitempty"`
}

// NewMessage creates a new Message instance
func NewMessage(sessionID uuid.UUID, role MessageRole, content string) *Message {
	return &Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// WithMetadata attaches serialized metadata to the message
func (m *Message) WithMetadata(meta MessageMetadata) *Message {
	raw, err := json.Marshal(meta)
	if err != nil {
		return m
	}
	m.Metadata = raw
	return m
}
