package vendorb

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/RushabhaJain/vocalbridge/services/providers"
	"go.uber.org/zap"
)

// Config tunes the simulated vendorB backend
type Config struct {
	MinLatency    time.Duration
	MaxLatency    time.Duration
	RateLimitRate float64 // probability of a 429 response
}

// DefaultConfig returns the production simulation profile
func DefaultConfig() Config {
	return Config{
		MinLatency:    50 * time.Millisecond,
		MaxLatency:    1500 * time.Millisecond,
		RateLimitRate: 1.0 / 12.0,
	}
}

// Adapter simulates the vendorB chat backend.
// Response shape: {choices:[{message:{content}}], usage:{input_tokens, output_tokens}}.
// Failure profile: roughly 1-in-12 calls return a 429 rate limit with a
// retry-after hint in milliseconds.
type Adapter struct {
	config    Config
	logger    *zap.Logger
	randFloat func() float64
}

// New creates a vendorB adapter with the default simulation profile
func New(logger *zap.Logger) *Adapter {
	return NewWithConfig(DefaultConfig(), logger)
}

// NewWithConfig creates a vendorB adapter with a custom profile
func NewWithConfig(config Config, logger *zap.Logger) *Adapter {
	return &Adapter{
		config:    config,
		logger:    logger,
		randFloat: rand.Float64,
	}
}

// Name returns the provider name
func (a *Adapter) Name() string {
	return "vendorB"
}

// Chat simulates one round trip to the vendorB completion endpoint
func (a *Adapter) Chat(ctx context.Context, history []providers.ChatTurn, systemPrompt string) *providers.CallResult {
	start := time.Now()

	if err := a.simulateLatency(ctx); err != nil {
		return &providers.CallResult{
			Success: false,
			Error: &providers.CallError{
				Kind:    providers.KindTimeout,
				Message: err.Error(),
			},
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	if a.randFloat() < a.config.RateLimitRate {
		retryAfterMs := int64(a.randFloat()*2000) + 500
		a.logger.Warn("vendorB rate limited", zap.Int64("retry_after_ms", retryAfterMs))
		return &providers.CallResult{
			Success: false,
			Error: &providers.CallError{
				Kind:         providers.KindRateLimit,
				Message:      "rate limit exceeded",
				StatusCode:   429,
				RetryAfterMs: retryAfterMs,
			},
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	text := fmt.Sprintf("VendorB response to: %q", truncate(lastContent(history), 50))
	return &providers.CallResult{
		Success: true,
		Response: &providers.VendorResponse{
			Choices: []providers.Choice{
				{Message: providers.ChoiceMessage{Content: text}},
			},
			Usage: &providers.Usage{
				InputTokens:  int(a.randFloat()*120) + 60,
				OutputTokens: int(a.randFloat()*180) + 60,
			},
		},
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func (a *Adapter) simulateLatency(ctx context.Context) error {
	spread := a.config.MaxLatency - a.config.MinLatency
	latency := a.config.MinLatency + time.Duration(a.randFloat()*float64(spread))
	select {
	case <-time.After(latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func lastContent(history []providers.ChatTurn) string {
	if len(history) == 0 {
		return ""
	}
	return history[len(history)-1].Content
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
