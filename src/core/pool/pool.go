// Package pool implements a bounded pool of raw database connections.
//
// A Pool creates connections lazily up to Max, hands idle ones out most
// recently used first, and queues callers in FIFO order once Max is reached.
// Every Conn returned by Acquire must be given back exactly once, through
// Release or Destroy; the pool rejects a second hand-back with
// domain.ErrConnectionState.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"dbclient/src/core/domain"
	"dbclient/src/core/ports"
)

const (
	defaultNamePrefix = "pool"
)

var (
	poolCounter atomic.Int64
)

// Option configures a Pool at construction.
type Option func(p *Pool) error

// WithName is an option and used for naming the pool.
func WithName(name string) Option {
	return func(p *Pool) error {
		if name == "" {
			return domain.NewConfigurationError("name", "must not be empty")
		}
		p.name = name
		return nil
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pool) error {
		if log != nil {
			p.log = log
		}
		return nil
	}
}

// WithObserver registers a receiver for acquire/create/destroy events.
func WithObserver(o Observer) Option {
	return func(p *Pool) error {
		if o != nil {
			p.observer = o
		}
		return nil
	}
}

// Pool is a bounded set of reusable connections.
type Pool struct {
	name      string
	cfg       Config
	connector ports.Connector
	log       *slog.Logger
	observer  Observer
	stats     *stats

	mu      sync.Mutex
	idle    []*session // oldest first; Acquire pops from the end
	inUse   map[*session]struct{}
	numOpen int // idle + in use + opening
	waiters []*waiter
	closed  bool

	cancel context.CancelFunc
	done   chan struct{}
}

type waiter struct {
	ch chan grant
}

// grant is what a queued Acquire receives: a connection already checked out
// on its behalf, permission to open a new one (already counted in numOpen),
// or an error.
type grant struct {
	conn *Conn
	open bool
	err  error
}

// New returns a connection pool. No connection is opened until Acquire or Warm.
func New(cfg Config, connector ports.Connector, options ...Option) (*Pool, error) {
	if connector == nil {
		return nil, domain.NewConfigurationError("connection", "no connector provided")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := &Pool{
		cfg:       cfg,
		connector: connector,
		log:       slog.Default(),
		observer:  nopObserver{},
		stats:     newStats(),
		inUse:     make(map[*session]struct{}),
	}
	for _, opt := range options {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.name == "" {
		p.name = fmt.Sprintf("%s-%d", defaultNamePrefix, poolCounter.Add(1))
	}
	p.log = p.log.With("component", "pool", "pool", p.name)

	if cfg.ReapInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		p.done = make(chan struct{})
		go p.reapLoop(ctx)
	}
	return p, nil
}

// Name returns the pool name.
// If you do not provide a name while creating the pool then a name starting with "pool" is assigned.
func (p *Pool) Name() string {
	return p.name
}

// Acquire returns a connection owned by the caller until it is passed to
// Release or Destroy. It waits while Max connections are checked out; the
// wait is bounded by AcquireTimeout and ctx and ends with domain.ErrPoolExhausted.
func (p *Pool) Acquire(ctx context.Context) (c *Conn, err error) {
	start := time.Now()
	defer func() {
		p.stats.request.inc()
		if err == nil {
			p.stats.success.inc()
		}
		p.observer.ObserveAcquire(p.name, time.Since(start), err)
	}()

	if p.cfg.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.AcquireTimeout)
		defer cancel()
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, domain.ErrPoolClosed
	}

	var stale []*session
	now := time.Now()
	for len(p.idle) > 0 {
		last := len(p.idle) - 1
		s := p.idle[last]
		p.idle = p.idle[:last]
		if p.expired(s, now) {
			s.state = stateClosed
			p.numOpen--
			stale = append(stale, s)
			continue
		}
		c := p.checkoutLocked(s)
		p.mu.Unlock()
		p.closeConns(stale, "idle_timeout")
		return c, nil
	}

	if p.numOpen < p.cfg.Max {
		p.numOpen++
		p.mu.Unlock()
		p.closeConns(stale, "idle_timeout")
		return p.open(ctx)
	}

	w := &waiter{ch: make(chan grant, 1)}
	p.waiters = append(p.waiters, w)
	p.mu.Unlock()
	p.closeConns(stale, "idle_timeout")

	select {
	case g := <-w.ch:
		return p.accept(ctx, g)
	case <-ctx.Done():
		p.mu.Lock()
		queued := p.removeWaiterLocked(w)
		p.mu.Unlock()
		if !queued {
			// a grant was sent before we could leave the queue
			p.giveBack(<-w.ch)
		}
		p.stats.timeout.inc()
		p.log.Warn("acquire timed out", "waited", time.Since(start))
		return nil, domain.NewPoolExhaustedError(p.name, ctx.Err())
	}
}

func (p *Pool) accept(ctx context.Context, g grant) (*Conn, error) {
	switch {
	case g.err != nil:
		return nil, g.err
	case g.conn != nil:
		return g.conn, nil
	default:
		return p.open(ctx)
	}
}

// giveBack returns a grant whose waiter is no longer interested.
func (p *Pool) giveBack(g grant) {
	switch {
	case g.conn != nil:
		if err := p.Release(g.conn); err != nil {
			p.log.Error("failed to return handed-over connection", "cid", g.conn.ID(), "error", err)
		}
	case g.open:
		p.mu.Lock()
		p.slotFreedLocked()
		p.mu.Unlock()
	}
}

// open creates a connection for a slot already counted in numOpen.
func (p *Pool) open(ctx context.Context) (*Conn, error) {
	raw, err := p.connector.Connect(ctx)
	if err != nil {
		p.mu.Lock()
		p.slotFreedLocked()
		p.mu.Unlock()
		p.stats.createFailed.inc()
		p.observer.ObserveCreate(p.name, err)
		p.log.Warn("connection create failed", "error", err)
		return nil, domain.NewConnectionCreateError(p.name, err)
	}

	s := newSession(raw)
	p.mu.Lock()
	if p.closed {
		p.numOpen--
		p.mu.Unlock()
		_ = raw.Close()
		return nil, domain.ErrPoolClosed
	}
	c := p.checkoutLocked(s)
	p.mu.Unlock()

	p.stats.created.inc()
	p.observer.ObserveCreate(p.name, nil)
	p.log.Debug("connection created", "cid", s.id)
	return c, nil
}

// Release gives a connection back. Healthy connections go to the oldest
// waiter or the idle set; broken ones are destroyed.
func (p *Pool) Release(c *Conn) error {
	if c == nil {
		return domain.NewValidationError("conn", "nil connection")
	}
	if c.Broken() {
		return p.Destroy(c)
	}

	p.mu.Lock()
	s, err := p.returnLocked(c, "release")
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if p.closed {
		delete(p.inUse, s)
		s.state = stateClosed
		p.numOpen--
		p.mu.Unlock()
		return p.closeConn(s, "pool_closed")
	}

	s.lastUsed = time.Now()
	if w := p.popWaiterLocked(); w != nil {
		// the session stays in inUse under a fresh lease for the waiter
		w.ch <- grant{conn: p.checkoutLocked(s)}
		p.mu.Unlock()
		return nil
	}
	delete(p.inUse, s)
	s.state = stateIdle
	p.idle = append(p.idle, s)
	p.mu.Unlock()
	return nil
}

// Destroy closes a checked-out connection through the driver and removes it
// from all bookkeeping. The freed slot goes to the oldest waiter.
func (p *Pool) Destroy(c *Conn) error {
	if c == nil {
		return domain.NewValidationError("conn", "nil connection")
	}

	p.mu.Lock()
	s, err := p.returnLocked(c, "destroy")
	if err != nil {
		p.mu.Unlock()
		return err
	}
	delete(p.inUse, s)
	s.state = stateClosed
	p.slotFreedLocked()
	p.mu.Unlock()

	reason := "destroyed"
	if s.broken.Load() {
		reason = "broken"
	}
	return p.closeConn(s, reason)
}

// Close terminates the pool. Idle connections are closed now, waiters fail
// with domain.ErrPoolClosed, and checked-out connections are closed when
// they are released. Once you called it you can not resume the pool.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.numOpen -= len(idle)
	for _, s := range idle {
		s.state = stateClosed
	}
	for _, w := range p.waiters {
		w.ch <- grant{err: domain.ErrPoolClosed}
	}
	p.waiters = nil
	inUse := len(p.inUse)
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		<-p.done
	}

	var errs []error
	for _, s := range idle {
		if err := p.closeConn(s, "pool_closed"); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.id, err))
		}
	}
	p.log.Info("pool closed", "closed_idle", len(idle), "still_in_use", inUse)
	return errors.Join(errs...)
}

// Stats returns a snapshot of the pool state and counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	s := Stats{
		Name:    p.name,
		Min:     p.cfg.Min,
		Max:     p.cfg.Max,
		Open:    p.numOpen,
		Idle:    len(p.idle),
		InUse:   len(p.inUse),
		Waiting: len(p.waiters),
		Closed:  p.closed,
	}
	p.mu.Unlock()
	p.stats.fill(&s)
	return s
}

// Health acquires and releases one connection, proving the pool can serve.
func (p *Pool) Health(ctx context.Context) error {
	c, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	return p.Release(c)
}

func (p *Pool) expired(s *session, now time.Time) bool {
	return p.cfg.IdleTimeout > 0 && now.Sub(s.lastUsed) > p.cfg.IdleTimeout
}

// checkoutLocked issues a new lease on s.
func (p *Pool) checkoutLocked(s *session) *Conn {
	s.state = stateInUse
	s.lastUsed = time.Now()
	p.inUse[s] = struct{}{}
	return &Conn{s: s, lease: s.lease.Add(1)}
}

// returnLocked ends the lease held by c. A Conn that was already handed back,
// even if its session has been checked out again since, is rejected.
func (p *Pool) returnLocked(c *Conn, op string) (*session, error) {
	s := c.s
	if _, ok := p.inUse[s]; !ok || !s.lease.CompareAndSwap(c.lease, c.lease+1) {
		p.log.Error(op+" of connection not checked out", "cid", s.id, "state", s.state.String())
		return nil, domain.NewConnectionStateError(op, s.id)
	}
	return s, nil
}

// slotFreedLocked drops one open slot and passes spare capacity to waiters.
func (p *Pool) slotFreedLocked() {
	p.numOpen--
	p.grantWaitersLocked()
}

func (p *Pool) grantWaitersLocked() {
	for p.numOpen < p.cfg.Max {
		w := p.popWaiterLocked()
		if w == nil {
			return
		}
		p.numOpen++
		w.ch <- grant{open: true}
	}
}

func (p *Pool) popWaiterLocked() *waiter {
	if len(p.waiters) == 0 {
		return nil
	}
	w := p.waiters[0]
	p.waiters[0] = nil
	p.waiters = p.waiters[1:]
	return w
}

func (p *Pool) removeWaiterLocked(w *waiter) bool {
	i := slices.Index(p.waiters, w)
	if i < 0 {
		return false
	}
	p.waiters = slices.Delete(p.waiters, i, i+1)
	return true
}

func (p *Pool) closeConn(s *session, reason string) error {
	err := s.raw.Close()
	p.stats.destroyed.inc()
	p.observer.ObserveDestroy(p.name, reason)
	if err != nil {
		p.log.Warn("connection close failed", "cid", s.id, "reason", reason, "error", err)
		return err
	}
	p.log.Debug("connection closed", "cid", s.id, "reason", reason)
	return nil
}

func (p *Pool) closeConns(sessions []*session, reason string) {
	for _, s := range sessions {
		_ = p.closeConn(s, reason)
	}
}
