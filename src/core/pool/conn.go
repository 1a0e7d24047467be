package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"dbclient/src/core/domain"
	"dbclient/src/core/ports"
)

type connState int

const (
	stateIdle connState = iota
	stateInUse
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateInUse:
		return "in_use"
	default:
		return "closed"
	}
}

// session is one raw driver connection tracked by the pool. It outlives any
// single checkout.
type session struct {
	id  string
	raw ports.RawConn

	// serializes statements on the session
	mu sync.Mutex

	// bumped on every checkout and hand-back; a Conn whose lease differs is stale
	lease atomic.Uint64

	// guarded by Pool.mu
	lastUsed time.Time
	state    connState

	broken atomic.Bool
}

func newSession(raw ports.RawConn) *session {
	return &session{
		id:       "cid-" + uuid.NewString(),
		raw:      raw,
		lastUsed: time.Now(),
		state:    stateIdle,
	}
}

// Conn is one checkout of a pooled connection. It is valid from Acquire until
// it is passed to Release or Destroy; after that every method that talks to
// the driver fails with domain.ErrConnectionState, even if the pool has
// since handed the same underlying connection to another caller.
type Conn struct {
	s     *session
	lease uint64
}

// ID returns the correlation identifier of the underlying connection. It is
// stable across checkouts.
func (c *Conn) ID() string {
	return c.s.id
}

// Valid reports whether the checkout is still held.
func (c *Conn) Valid() bool {
	return c.s.lease.Load() == c.lease
}

// Exec runs one query. Calls on the same connection never overlap; a driver
// error marked as a bad connection flags it so the pool destroys it on release.
func (c *Conn) Exec(ctx context.Context, q domain.Query) (domain.Rows, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if !c.Valid() {
		return domain.Rows{}, domain.NewConnectionStateError("exec", c.s.id)
	}

	args := q.Args
	if args == nil {
		args = []any{}
	}
	rows, err := c.s.raw.Execute(ctx, q.SQL, args)
	if err != nil && domain.IsBadConnection(err) {
		c.s.broken.Store(true)
	}
	return rows, err
}

// MarkBroken flags the connection so Release destroys it instead of recycling it.
func (c *Conn) MarkBroken() {
	if c.Valid() {
		c.s.broken.Store(true)
	}
}

// Broken reports whether the connection must not be reused.
func (c *Conn) Broken() bool {
	return c.s.broken.Load()
}
