package providers

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// RetryingCaller decorates a VendorAdapter with timeout, bounded retry, and
// exponential backoff. It produces exactly one CallResult per invocation;
// LatencyMs reflects only the final attempt, not cumulative retry time.
type RetryingCaller struct {
	adapter VendorAdapter
	config  CallConfig
	logger  *zap.Logger
}

// NewRetryingCaller wraps the adapter with the given retry policy
func NewRetryingCaller(adapter VendorAdapter, config CallConfig, logger *zap.Logger) *RetryingCaller {
	if config.Timeout <= 0 {
		config.Timeout = DefaultCallConfig().Timeout
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = DefaultCallConfig().MaxRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultCallConfig().RetryDelay
	}
	return &RetryingCaller{
		adapter: adapter,
		config:  config,
		logger:  logger,
	}
}

// Name returns the wrapped adapter's provider name
func (c *RetryingCaller) Name() string {
	return c.adapter.Name()
}

// Call runs the adapter with up to MaxRetries+1 attempts. Each attempt races
// the adapter against the configured timeout; the losing side is cancelled
// and its result discarded. Non-retryable failures short-circuit. On
// exhaustion the last observed failure is returned.
func (c *RetryingCaller) Call(ctx context.Context, history []ChatTurn, systemPrompt string) *CallResult {
	var lastFailure *CallResult

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		result := c.attempt(ctx, history, systemPrompt)

		if result.Success {
			c.logger.Info("provider call succeeded",
				zap.String("provider", c.adapter.Name()),
				zap.Int("attempt", attempt+1),
				zap.Int64("latency_ms", result.LatencyMs))
			return result
		}

		lastFailure = result

		if result.Error != nil && !result.Error.Retryable() {
			c.logger.Warn("provider returned non-retryable error",
				zap.String("provider", c.adapter.Name()),
				zap.Int("attempt", attempt+1),
				zap.String("kind", string(result.Error.Kind)))
			return result
		}

		if attempt < c.config.MaxRetries {
			delay := c.backoffDelay(result.Error, attempt)
			c.logger.Warn("provider call failed, retrying",
				zap.String("provider", c.adapter.Name()),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", delay),
				zap.String("kind", string(errorKind(result.Error))))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return lastFailure
			}
		}
	}

	c.logger.Error("provider call failed after all retries",
		zap.String("provider", c.adapter.Name()),
		zap.Int("attempts", c.config.MaxRetries+1))

	if lastFailure == nil {
		lastFailure = &CallResult{
			Success: false,
			Error:   &CallError{Kind: KindUnknown, Message: "provider call failed"},
		}
	}
	return lastFailure
}

// attempt races one adapter call against the timeout. The adapter runs in
// its own goroutine writing to a buffered channel, so a late loser completes
// harmlessly after cancellation.
func (c *RetryingCaller) attempt(ctx context.Context, history []ChatTurn, systemPrompt string) *CallResult {
	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resultCh := make(chan *CallResult, 1)
	go func() {
		resultCh <- c.adapter.Chat(callCtx, history, systemPrompt)
	}()

	select {
	case result := <-resultCh:
		// an adapter result arriving at the same instant the deadline fires
		// still counts as a timeout; the synthesized result wins
		if callCtx.Err() == nil {
			return result
		}
	case <-callCtx.Done():
	}

	return &CallResult{
		Success: false,
		Error: &CallError{
			Kind:    KindTimeout,
			Message: fmt.Sprintf("request timeout after %dms", c.config.Timeout.Milliseconds()),
		},
		LatencyMs: c.config.Timeout.Milliseconds(),
	}
}

// backoffDelay computes (retry-after hint or configured delay) * 2^attempt
func (c *RetryingCaller) backoffDelay(callErr *CallError, attempt int) time.Duration {
	base := c.config.RetryDelay
	if callErr != nil && callErr.RetryAfterMs > 0 {
		base = time.Duration(callErr.RetryAfterMs) * time.Millisecond
	}
	return base * time.Duration(math.Pow(2, float64(attempt)))
}

func errorKind(callErr *CallError) ErrorKind {
	if callErr == nil {
		return KindUnknown
	}
	return callErr.Kind
}
