package pool

import (
	"time"

	"dbclient/src/core/domain"
)

// Config holds the pool bounds and timers.
type Config struct {
	// Min is the number of connections kept open once warmed.
	Min int

	// Max is the upper bound on idle + in-use + opening connections.
	Max int

	// IdleTimeout evicts idle connections unused for longer than this. Zero disables eviction.
	IdleTimeout time.Duration

	// AcquireTimeout bounds the wait for a free connection. Zero waits until the caller's ctx is done.
	AcquireTimeout time.Duration

	// ReapInterval is the period of the eviction sweep. Zero disables the background sweep.
	ReapInterval time.Duration
}

// DefaultConfig returns the documented defaults: min 2, max 10, 30s idle timeout.
func DefaultConfig() Config {
	return Config{
		Min:            domain.DefaultPoolMin,
		Max:            domain.DefaultPoolMax,
		IdleTimeout:    domain.DefaultIdleTimeout,
		AcquireTimeout: domain.DefaultAcquireTimeout,
		ReapInterval:   domain.DefaultReapInterval,
	}
}

func (c Config) validate() error {
	if c.Max <= 0 {
		return domain.NewConfigurationError("max", "must be greater than zero")
	}
	if c.Min < 0 || c.Min > c.Max {
		return domain.NewConfigurationError("min", "must be between 0 and max")
	}
	if c.IdleTimeout < 0 {
		return domain.NewConfigurationError("idle_timeout", "must not be negative")
	}
	if c.AcquireTimeout < 0 {
		return domain.NewConfigurationError("acquire_timeout", "must not be negative")
	}
	if c.ReapInterval < 0 {
		return domain.NewConfigurationError("reap_interval", "must not be negative")
	}
	return nil
}
