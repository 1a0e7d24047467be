// Package usecase holds the services behind the admin API.
package usecase

import (
	"log/slog"

	"dbclient/src/core/pool"
)

// PoolRegistry is the read side of *pool.Registry.
type PoolRegistry interface {
	Names() []string
	Lookup(name string) (*pool.Pool, error)
	Stats() []pool.Stats
}

// PoolService reports pool state.
type PoolService struct {
	pools PoolRegistry
	log   *slog.Logger
}

// NewPoolService creates a new PoolService.
func NewPoolService(pools PoolRegistry, log *slog.Logger) *PoolService {
	return &PoolService{pools: pools, log: log}
}

// List returns a snapshot of every pool, sorted by client name.
func (s *PoolService) List() []pool.Stats {
	return s.pools.Stats()
}

// Get returns the snapshot of the pool registered for client name.
func (s *PoolService) Get(name string) (pool.Stats, error) {
	p, err := s.pools.Lookup(name)
	if err != nil {
		return pool.Stats{}, err
	}
	return p.Stats(), nil
}
