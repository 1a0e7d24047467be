// Package client routes statement execution through a connection pool and
// coordinates transactions pinned to a single connection.
package client

import (
	"context"
	"log/slog"

	"dbclient/src/core/domain"
	"dbclient/src/core/pool"
)

// ConnPool is the part of *pool.Pool the client depends on.
type ConnPool interface {
	Acquire(ctx context.Context) (*pool.Conn, error)
	Release(c *pool.Conn) error
	Destroy(c *pool.Conn) error
}

// PrepDataFunc rewrites a compiled statement before it is sent to the driver.
type PrepDataFunc func(domain.Statement) (domain.Statement, error)

// PrepRespFunc post-processes a successful result before it reaches the caller.
type PrepRespFunc func(domain.Result) (domain.Result, error)

// Config holds client-level settings.
type Config struct {
	// Name identifies the client in logs, metrics and the pool registry.
	Name string

	// Debug enables per-query tracing unless a request overrides it.
	Debug bool
}

// Option customizes a Client.
type Option func(c *Client)

// WithLogger sets the logger used for query traces and release failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithPrepData installs a statement rewrite hook.
func WithPrepData(fn PrepDataFunc) Option {
	return func(c *Client) {
		if fn != nil {
			c.prepData = fn
		}
	}
}

// WithPrepResp installs a result post-processing hook.
func WithPrepResp(fn PrepRespFunc) Option {
	return func(c *Client) {
		if fn != nil {
			c.prepResp = fn
		}
	}
}

// Client executes statements on pooled connections.
type Client struct {
	name     string
	debug    bool
	pool     ConnPool
	log      *slog.Logger
	prepData PrepDataFunc
	prepResp PrepRespFunc
}

// New creates a client bound to p. The client does not own the pool; close it
// through the registry or directly.
func New(cfg Config, p ConnPool, opts ...Option) (*Client, error) {
	if p == nil {
		return nil, domain.NewConfigurationError("pool", "no connection pool provided")
	}
	name := cfg.Name
	if name == "" {
		name = "default"
	}

	c := &Client{
		name:     name,
		debug:    cfg.Debug,
		pool:     p,
		log:      slog.Default(),
		prepData: func(s domain.Statement) (domain.Statement, error) { return s, nil },
		prepResp: func(r domain.Result) (domain.Result, error) { return r, nil },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "client", "client", name)
	return c, nil
}

// Name returns the client name.
func (c *Client) Name() string {
	return c.name
}

// Debug reports the client-wide tracing default.
func (c *Client) Debug() bool {
	return c.debug
}

// AcquireConnection checks a connection out of the pool. The caller must hand
// it back with ReleaseConnection.
func (c *Client) AcquireConnection(ctx context.Context) (*pool.Conn, error) {
	return c.pool.Acquire(ctx)
}

// ReleaseConnection returns a connection obtained from AcquireConnection.
// A connection the driver reported as broken is destroyed instead.
func (c *Client) ReleaseConnection(conn *pool.Conn) error {
	if conn == nil {
		return domain.NewValidationError("conn", "nil connection")
	}
	if conn.Broken() {
		return c.pool.Destroy(conn)
	}
	return c.pool.Release(conn)
}
