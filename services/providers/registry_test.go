package providers

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticAdapter struct{ name string }

func (a *staticAdapter) Chat(ctx context.Context, history []ChatTurn, systemPrompt string) *CallResult {
	return &CallResult{Success: true}
}

func (a *staticAdapter) Name() string { return a.name }

func TestRegistry_GetMemoizes(t *testing.T) {
	built := 0
	registry := NewRegistry(map[string]Builder{
		"vendorA": func(logger *zap.Logger) VendorAdapter {
			built++
			return &staticAdapter{name: "vendorA"}
		},
	}, zap.NewNop())

	first, err := registry.Get("vendorA")
	require.NoError(t, err)
	second, err := registry.Get("vendorA")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, built)
}

func TestRegistry_UnknownProvider(t *testing.T) {
	registry := NewRegistry(map[string]Builder{}, zap.NewNop())

	adapter, err := registry.Get("vendorZ")
	assert.Nil(t, adapter)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.Contains(t, err.Error(), "vendorZ")
}

func TestRegistry_ConcurrentFirstAccess(t *testing.T) {
	registry := NewRegistry(map[string]Builder{
		"vendorA": func(logger *zap.Logger) VendorAdapter {
			return &staticAdapter{name: "vendorA"}
		},
	}, zap.NewNop())

	const workers = 32
	adapters := make([]VendorAdapter, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			adapter, err := registry.Get("vendorA")
			require.NoError(t, err)
			adapters[i] = adapter
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, adapters[0], adapters[i])
	}
}

func TestRegistry_NamesAndCount(t *testing.T) {
	registry := NewRegistry(map[string]Builder{
		"vendorA": func(logger *zap.Logger) VendorAdapter { return &staticAdapter{name: "vendorA"} },
		"vendorB": func(logger *zap.Logger) VendorAdapter { return &staticAdapter{name: "vendorB"} },
	}, zap.NewNop())

	assert.Equal(t, 2, registry.Count())
	assert.ElementsMatch(t, []string{"vendorA", "vendorB"}, registry.Names())
}
