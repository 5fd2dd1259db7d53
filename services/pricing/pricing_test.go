package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCost(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		tokensIn  int
		tokensOut int
		want      float64
	}{
		{"vendorA typical turn", "vendorA", 1000, 2000, 0.006},
		{"vendorB typical turn", "vendorB", 1500, 3000, 0.0135},
		{"zero tokens", "vendorA", 0, 0, 0},
		{"unknown provider is free", "vendorC", 1000, 1000, 0},
		{"empty provider is free", "", 1000, 1000, 0},
		{"vendorA small turn rounds to six decimals", "vendorA", 1, 1, 0.000004},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCost(tt.provider, tt.tokensIn, tt.tokensOut)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCalculateCost_Monotonic(t *testing.T) {
	low := CalculateCost("vendorB", 100, 100)
	high := CalculateCost("vendorB", 200, 200)
	assert.Greater(t, high, low)
}

func TestKnownProvider(t *testing.T) {
	assert.True(t, KnownProvider("vendorA"))
	assert.True(t, KnownProvider("vendorB"))
	assert.False(t, KnownProvider("vendorC"))
}
