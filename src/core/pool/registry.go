package pool

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"dbclient/src/core/domain"
)

// Registry maps client names to pools. Each client owns exactly one pool.
type Registry struct {
	mu    sync.RWMutex
	pools map[string]*Pool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{pools: make(map[string]*Pool)}
}

// Register stores p under name.
func (r *Registry) Register(name string, p *Pool) error {
	if name == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	if p == nil {
		return domain.NewValidationError("pool", "must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pools[name]; ok {
		return domain.NewAlreadyExistsError("pool " + name)
	}
	r.pools[name] = p
	return nil
}

// Lookup returns the pool registered under name.
func (r *Registry) Lookup(name string) (*Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pools[name]
	if !ok {
		return nil, domain.NewNotFoundError("pool " + name)
	}
	return p, nil
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.pools))
	for name := range r.pools {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Stats returns a snapshot of every registered pool, sorted by name.
func (r *Registry) Stats() []Stats {
	names := r.Names()
	out := make([]Stats, 0, len(names))
	for _, name := range names {
		p, err := r.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, p.Stats())
	}
	return out
}

// Remove unregisters and closes the named pool.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	p, ok := r.pools[name]
	delete(r.pools, name)
	r.mu.Unlock()
	if !ok {
		return domain.NewNotFoundError("pool " + name)
	}
	return p.Close()
}

// CloseAll closes every registered pool and empties the registry.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	pools := r.pools
	r.pools = make(map[string]*Pool)
	r.mu.Unlock()

	var errs []error
	for name, p := range pools {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pool %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
