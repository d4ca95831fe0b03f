package providers

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Registry manages the registered activity providers
type Registry struct {
	providers map[string]ActivityProvider
	mu        sync.RWMutex
	logger    *slog.Logger
}

// NewRegistry creates a new provider registry
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		providers: make(map[string]ActivityProvider),
		logger:    logger,
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(provider ActivityProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.providers[name] = provider
	r.logger.Debug("registered provider", slog.String("provider", name))
	return nil
}

// Get returns a provider by name
func (r *Registry) Get(name string) (ActivityProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	return provider, nil
}

// List returns all registered provider names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
