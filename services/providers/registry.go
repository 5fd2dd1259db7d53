package providers

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrUnknownProvider is returned when a provider name is not recognized
var ErrUnknownProvider = errors.New("unknown provider")

// Builder constructs a VendorAdapter for a named provider
type Builder func(logger *zap.Logger) VendorAdapter

// Registry memoizes adapter instances by provider name. It is an explicitly
// constructed, injected instance with process lifetime; concurrent first
// lookups for the same name establish a single winner under the mutex.
type Registry struct {
	mu       sync.Mutex
	builders map[string]Builder
	adapters map[string]VendorAdapter
	logger   *zap.Logger
}

// NewRegistry creates a registry with the given adapter builders
func NewRegistry(builders map[string]Builder, logger *zap.Logger) *Registry {
	return &Registry{
		builders: builders,
		adapters: make(map[string]VendorAdapter),
		logger:   logger,
	}
}

// Get returns the memoized adapter for the named provider, constructing it
// on first access. Repeated lookups return the same instance.
func (r *Registry) Get(name string) (VendorAdapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if adapter, ok := r.adapters[name]; ok {
		return adapter, nil
	}

	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	adapter := builder(r.logger)
	r.adapters[name] = adapter
	r.logger.Info("provider adapter constructed", zap.String("provider", name))
	return adapter, nil
}

// Names returns all registered provider names
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered provider builders
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.builders)
}
