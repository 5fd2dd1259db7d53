package conversation

import "github.com/google/uuid"

// SendMessageRequest is one inbound conversation turn
type SendMessageRequest struct {
	TenantID       uuid.UUID
	SessionID      uuid.UUID
	Message        string
	IdempotencyKey string // optional; empty disables replay protection
}

// TurnMetadata carries diagnostics about how the turn was served
type TurnMetadata struct {
	LatencyMs    int64 `json:"latency_ms"`
	UsedFallback bool  `json:"used_fallback"`
}

// TurnResult is the completed turn returned to the caller. Replays from the
// idempotency cache return the stored value verbatim.
type TurnResult struct {
	AssistantMessage string       `json:"assistant_message"`
	Provider         string       `json:"provider"`
	TokensIn         int          `json:"tokens_in"`
	TokensOut        int          `json:"tokens_out"`
	Cost             float64      `json:"cost"`
	Metadata         TurnMetadata `json:"metadata"`
}
