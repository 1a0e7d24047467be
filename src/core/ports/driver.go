// Package ports defines interfaces (ports) that connect the client core to its collaborators.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra/driver and src/core/builder. This keeps the pool and
// executor free of any driver import.
package ports

import (
	"context"

	"dbclient/src/core/domain"
)

// RawConn is a single live session with the backing data store.
// It executes one statement at a time and is not safe for concurrent use.
type RawConn interface {
	// Execute runs sql with ordered args and returns the raw rows.
	// Errors that leave the session unusable must satisfy domain.IsBadConnection.
	Execute(ctx context.Context, sql string, args []any) (domain.Rows, error)

	// Close ends the session.
	Close() error
}

// Connector opens new raw connections using driver-specific settings.
type Connector interface {
	Connect(ctx context.Context) (RawConn, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context) (RawConn, error)

// Connect calls f(ctx).
func (f ConnectorFunc) Connect(ctx context.Context) (RawConn, error) {
	return f(ctx)
}
