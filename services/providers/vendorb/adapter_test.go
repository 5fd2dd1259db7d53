package vendorb

import (
	"context"
	"testing"
	"time"

	"github.com/RushabhaJain/vocalbridge/services/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	return Config{
		MinLatency:    0,
		MaxLatency:    time.Millisecond,
		RateLimitRate: 1.0 / 12.0,
	}
}

// scriptedRand returns values from the sequence, then zero
func scriptedRand(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		if i >= len(values) {
			return 0
		}
		v := values[i]
		i++
		return v
	}
}

func TestChat_Success(t *testing.T) {
	adapter := NewWithConfig(testConfig(), zap.NewNop())
	// latency, rate-limit check (miss), tokensIn, tokensOut
	adapter.randFloat = scriptedRand(0, 0.5, 0.5, 0.5)

	result := adapter.Chat(context.Background(), []providers.ChatTurn{
		{Role: "user", Content: "do you ship internationally?"},
	}, "")

	require.True(t, result.Success)
	require.NotNil(t, result.Response)
	require.Len(t, result.Response.Choices, 1)
	assert.Contains(t, result.Response.Choices[0].Message.Content, "do you ship internationally?")
	require.NotNil(t, result.Response.Usage)
	assert.Equal(t, 120, result.Response.Usage.InputTokens)
	assert.Equal(t, 150, result.Response.Usage.OutputTokens)
	assert.Nil(t, result.Response.OutputText)
}

func TestChat_RateLimited(t *testing.T) {
	adapter := NewWithConfig(testConfig(), zap.NewNop())
	// latency, rate-limit check (hit), retry-after
	adapter.randFloat = scriptedRand(0, 0.01, 0.5)

	result := adapter.Chat(context.Background(), nil, "")

	require.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, providers.KindRateLimit, result.Error.Kind)
	assert.Equal(t, 429, result.Error.StatusCode)
	assert.Equal(t, int64(1500), result.Error.RetryAfterMs)
	assert.True(t, result.Error.Retryable())
}

func TestChat_RetryAfterBounds(t *testing.T) {
	adapter := NewWithConfig(testConfig(), zap.NewNop())

	// lowest possible hint
	adapter.randFloat = scriptedRand(0, 0.01, 0)
	result := adapter.Chat(context.Background(), nil, "")
	require.False(t, result.Success)
	assert.Equal(t, int64(500), result.Error.RetryAfterMs)

	// highest possible hint stays under 2500
	adapter.randFloat = scriptedRand(0, 0.01, 0.9999)
	result = adapter.Chat(context.Background(), nil, "")
	require.False(t, result.Success)
	assert.Less(t, result.Error.RetryAfterMs, int64(2500))
}

func TestChat_CancelledDuringLatency(t *testing.T) {
	config := testConfig()
	config.MinLatency = time.Second
	config.MaxLatency = 2 * time.Second
	adapter := NewWithConfig(config, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	result := adapter.Chat(ctx, nil, "")
	require.False(t, result.Success)
	assert.Equal(t, providers.KindTimeout, result.Error.Kind)
}

func TestName(t *testing.T) {
	assert.Equal(t, "vendorB", New(zap.NewNop()).Name())
}
