package providers

import (
	"context"
	"time"
)

// ChatTurn is a single message in a conversation history, oldest first
type ChatTurn struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// VendorResponse is the raw, provider-specific response shape. Exactly one
// of the two supported variants is populated:
//   - vendorA style: OutputText/TokensIn/TokensOut
//   - vendorB style: Choices/Usage
//
// The normalizer fails explicitly on any other shape.
type VendorResponse struct {
	// vendorA style
	OutputText *string `json:"outputText,omitempty"`
	TokensIn   int     `json:"tokensIn,omitempty"`
	TokensOut  int     `json:"tokensOut,omitempty"`

	// vendorB style
	Choices []Choice `json:"choices,omitempty"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice is one completion choice in a vendorB-style response
type Choice struct {
	Message ChoiceMessage `json:"message"`
}

// ChoiceMessage holds the content of a completion choice
type ChoiceMessage struct {
	Content string `json:"content"`
}

// Usage holds vendorB-style token accounting
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ErrorKind classifies a provider call failure
type ErrorKind string

const (
	KindTimeout        ErrorKind = "TIMEOUT"
	KindProviderError  ErrorKind = "PROVIDER_ERROR"
	KindRateLimit      ErrorKind = "RATE_LIMIT"
	KindInvalidRequest ErrorKind = "INVALID_REQUEST"
	KindUnknown        ErrorKind = "UNKNOWN_ERROR"
)

// CallError describes a failed provider call in a vendor-neutral shape
type CallError struct {
	Kind         ErrorKind `json:"kind"`
	Message      string    `json:"message"`
	StatusCode   int       `json:"status_code,omitempty"`
	RetryAfterMs int64     `json:"retry_after_ms,omitempty"`
}

// Error implements the error interface
func (e *CallError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Retryable reports whether the retry wrapper may attempt the call again.
// Invalid-request failures (400-class) are surfaced on first occurrence.
func (e *CallError) Retryable() bool {
	return e.Kind != KindInvalidRequest && e.StatusCode != 400
}

// CallResult is the outcome of one provider call attempt. Exactly one of
// Response/Error is populated depending on Success. A CallResult is never
// mutated after construction; retries produce fresh values.
type CallResult struct {
	Success   bool            `json:"success"`
	Response  *VendorResponse `json:"response,omitempty"`
	Error     *CallError      `json:"error,omitempty"`
	LatencyMs int64           `json:"latency_ms"`
}

// VendorAdapter is the polymorphic capability over chat backends. Each
// implementation speaks exactly one vendor's request/response contract and
// maps vendor-specific failures into CallError. Retry and timeout policy
// live in RetryingCaller, not in adapters.
type VendorAdapter interface {
	// Chat sends the conversation to the backend and reports the outcome.
	// Failures are returned inside the CallResult, not as a Go error.
	Chat(ctx context.Context, history []ChatTurn, systemPrompt string) *CallResult

	// Name returns the provider name (e.g. "vendorA")
	Name() string
}

// CallConfig tunes the retrying call wrapper
type CallConfig struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultCallConfig returns the default retry configuration
func DefaultCallConfig() CallConfig {
	return CallConfig{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}
