package providers

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrTypeNotRegistered is returned when no adapter answers to a
	// configuration type discriminator.
	ErrTypeNotRegistered = errors.New("provider type not registered")

	// ErrTypeAlreadyRegistered is returned when a type discriminator is
	// claimed by more than one adapter.
	ErrTypeAlreadyRegistered = errors.New("provider type already registered")
)

// Registry maps configuration type discriminators to provider adapters. It is
// an explicit object constructed once at start-up and passed in, not hidden
// process-wide state; adding a backend is a pure Register call.
type Registry struct {
	mu     sync.RWMutex
	byType map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]Provider)}
}

// Register adds an adapter under every type discriminator it answers to.
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return errors.New("provider cannot be nil")
	}
	types := p.Types()
	if len(types) == 0 {
		return fmt.Errorf("provider %q declares no type discriminators", p.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range types {
		if t == "" {
			return fmt.Errorf("provider %q declares an empty type discriminator", p.Name())
		}
		if _, exists := r.byType[t]; exists {
			return fmt.Errorf("%w: %q", ErrTypeAlreadyRegistered, t)
		}
	}
	for _, t := range types {
		r.byType[t] = p
	}
	return nil
}

// Get retrieves the adapter registered for a type discriminator.
func (r *Registry) Get(typeName string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.byType[typeName]
	if !exists {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrTypeNotRegistered, typeName, r.typesLocked())
	}
	return p, nil
}

// Types returns all registered type discriminators, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.typesLocked()
}

func (r *Registry) typesLocked() []string {
	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
