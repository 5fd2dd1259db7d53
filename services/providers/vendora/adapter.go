package vendora

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/RushabhaJain/vocalbridge/services/providers"
	"go.uber.org/zap"
)

// Config tunes the simulated vendorA backend
type Config struct {
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64 // probability of a 500 response
	SlowRate    float64 // probability of an extra 2s stall
}

// DefaultConfig returns the production simulation profile
func DefaultConfig() Config {
	return Config{
		MinLatency:  50 * time.Millisecond,
		MaxLatency:  2000 * time.Millisecond,
		FailureRate: 0.10,
		SlowRate:    0.05,
	}
}

// Adapter simulates the vendorA chat backend.
// Response shape: {outputText, tokensIn, tokensOut}.
// Failure profile: roughly 1-in-10 calls return a generic 500 server error.
type Adapter struct {
	config    Config
	logger    *zap.Logger
	randFloat func() float64
}

// New creates a vendorA adapter with the default simulation profile
func New(logger *zap.Logger) *Adapter {
	return NewWithConfig(DefaultConfig(), logger)
}

// NewWithConfig creates a vendorA adapter with a custom profile
func NewWithConfig(config Config, logger *zap.Logger) *Adapter {
	return &Adapter{
		config:    config,
		logger:    logger,
		randFloat: rand.Float64,
	}
}

// Name returns the provider name
func (a *Adapter) Name() string {
	return "vendorA"
}

// Chat simulates one round trip to the vendorA completion endpoint
func (a *Adapter) Chat(ctx context.Context, history []providers.ChatTurn, systemPrompt string) *providers.CallResult {
	start := time.Now()

	if err := a.simulateLatency(ctx); err != nil {
		return timeoutResult(start, err)
	}

	if a.randFloat() < a.config.FailureRate {
		a.logger.Warn("vendorA returned server error")
		return &providers.CallResult{
			Success: false,
			Error: &providers.CallError{
				Kind:       providers.KindProviderError,
				Message:    "internal server error",
				StatusCode: 500,
			},
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	if a.randFloat() < a.config.SlowRate {
		if err := sleepCtx(ctx, 2*time.Second); err != nil {
			return timeoutResult(start, err)
		}
	}

	text := fmt.Sprintf("VendorA response to: %q", truncate(lastContent(history), 50))
	output := text
	return &providers.CallResult{
		Success: true,
		Response: &providers.VendorResponse{
			OutputText: &output,
			TokensIn:   int(a.randFloat()*100) + 50,
			TokensOut:  int(a.randFloat()*150) + 50,
		},
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func (a *Adapter) simulateLatency(ctx context.Context) error {
	spread := a.config.MaxLatency - a.config.MinLatency
	latency := a.config.MinLatency + time.Duration(a.randFloat()*float64(spread))
	return sleepCtx(ctx, latency)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func timeoutResult(start time.Time, err error) *providers.CallResult {
	return &providers.CallResult{
		Success: false,
		Error: &providers.CallError{
			Kind:    providers.KindTimeout,
			Message: err.Error(),
		},
		LatencyMs: time.Since(start).Milliseconds(),
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
