package vendora

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
		MinLatency:  0,
		MaxLatency:  time.Millisecond,
		FailureRate: 0.10,
		SlowRate:    0.05,
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
	// latency, failure check (miss), slow check (miss), tokensIn, tokensOut
	adapter.randFloat = scriptedRand(0, 0.5, 0.5, 0.5, 0.5)

	result := adapter.Chat(context.Background(), []providers.ChatTurn{
		{Role: "user", Content: "what is the shipping policy?"},
	}, "")

	require.True(t, result.Success)
	require.NotNil(t, result.Response)
	require.NotNil(t, result.Response.OutputText)
	assert.Contains(t, *result.Response.OutputText, "what is the shipping policy?")
	assert.Equal(t, 100, result.Response.TokensIn)
	assert.Equal(t, 125, result.Response.TokensOut)
	assert.Nil(t, result.Response.Choices)
}

func TestChat_ServerError(t *testing.T) {
	adapter := NewWithConfig(testConfig(), zap.NewNop())
	// latency, failure check (hit)
	adapter.randFloat = scriptedRand(0, 0.05)

	result := adapter.Chat(context.Background(), nil, "")

	require.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, providers.KindProviderError, result.Error.Kind)
	assert.Equal(t, 500, result.Error.StatusCode)
	assert.True(t, result.Error.Retryable())
}

func TestChat_TruncatesLongPrompt(t *testing.T) {
	adapter := NewWithConfig(testConfig(), zap.NewNop())
	adapter.randFloat = scriptedRand(0, 0.5, 0.5, 0.5, 0.5)

	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	result := adapter.Chat(context.Background(), []providers.ChatTurn{
		{Role: "user", Content: string(long)},
	}, "")

	require.True(t, result.Success)
	assert.Contains(t, *result.Response.OutputText, "...")
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

func TestChat_CancelledDuringSlowStall(t *testing.T) {
	adapter := NewWithConfig(testConfig(), zap.NewNop())
	// latency, failure check (miss), slow check (hit)
	adapter.randFloat = scriptedRand(0, 0.5, 0.01)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result := adapter.Chat(ctx, nil, "")
	require.False(t, result.Success)
	assert.Equal(t, providers.KindTimeout, result.Error.Kind)
}

func TestName(t *testing.T) {
	assert.Equal(t, "vendorA", New(zap.NewNop()).Name())
}
