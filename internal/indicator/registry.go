package indicator

import (
	"sync"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// Factory creates a fresh indicator with default parameters.
type Factory func() Indicator

// Registry manages all available indicators.
type Registry interface {
	Register(name types.IndicatorType, factory Factory) error
	// Get returns a fresh instance each call, so callers can Config it
	// without affecting concurrent requests.
	Get(name types.IndicatorType) (Indicator, error)
	List() []types.IndicatorType
	Remove(name types.IndicatorType) error
}

// RegistryV1 is the default map-backed registry.
type RegistryV1 struct {
	factories map[types.IndicatorType]Factory
	mu        sync.RWMutex
}

// NewRegistry creates a new empty indicator registry.
func NewRegistry() Registry {
	return &RegistryV1{
		factories: make(map[types.IndicatorType]Factory),
		mu:        sync.RWMutex{},
	}
}

// Register adds an indicator factory to the registry.
func (r *RegistryV1) Register(name types.IndicatorType, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator with name %s already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// Get builds a fresh indicator instance by name.
func (r *RegistryV1) Get(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	return factory(), nil
}

// List returns a list of all registered indicator names.
func (r *RegistryV1) List() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	return names
}

// Remove removes an indicator from the registry.
func (r *RegistryV1) Remove(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	delete(r.factories, name)

	return nil
}
