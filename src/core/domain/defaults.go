package domain

import "time"

// DefaultPoolMin is the number of connections a pool keeps open once warmed.
const DefaultPoolMin = 2

// DefaultPoolMax is the upper bound on live connections per pool.
const DefaultPoolMax = 10

// DefaultIdleTimeout is how long an idle connection may sit before eviction.
const DefaultIdleTimeout = 30 * time.Second

// DefaultAcquireTimeout bounds how long Acquire waits for a free connection.
const DefaultAcquireTimeout = 10 * time.Second

// DefaultReapInterval is the period of the idle eviction sweep.
const DefaultReapInterval = time.Second

// Transaction control statements issued on the pinned connection.
const (
	StatementBegin    = "begin;"
	StatementCommit   = "commit;"
	StatementRollback = "rollback;"
)
