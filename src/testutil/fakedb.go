// Package testutil provides a scripted in-memory driver for pool and client tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"dbclient/src/core/domain"
	"dbclient/src/core/ports"
)

// ErrClosed is returned by a FakeConn used after Close.
var ErrClosed = errors.New("testutil: connection closed")

// Call records one statement seen by a FakeConn.
type Call struct {
	ConnID int
	SQL    string
	Args   []any
}

// FakeDriver implements ports.Connector and hands out FakeConns.
type FakeDriver struct {
	mu         sync.Mutex
	conns      []*FakeConn
	failures   map[string]error
	connectErr error
	delay      time.Duration
	log        []Call

	connects atomic.Int64
	closes   atomic.Int64
}

var _ ports.Connector = (*FakeDriver)(nil)

// NewFakeDriver returns a driver that succeeds on every call until told otherwise.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{failures: make(map[string]error)}
}

// Connect opens a new FakeConn, or fails with the injected connect error.
func (d *FakeDriver) Connect(ctx context.Context) (ports.RawConn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.connectErr != nil {
		return nil, d.connectErr
	}
	c := &FakeConn{id: len(d.conns) + 1, driver: d}
	d.conns = append(d.conns, c)
	d.connects.Add(1)
	return c, nil
}

// FailConnect makes subsequent Connect calls fail with err. A nil err clears it.
func (d *FakeDriver) FailConnect(err error) {
	d.mu.Lock()
	d.connectErr = err
	d.mu.Unlock()
}

// FailOn makes every statement whose text equals sql fail with err.
func (d *FakeDriver) FailOn(sql string, err error) {
	d.mu.Lock()
	d.failures[sql] = err
	d.mu.Unlock()
}

// SetDelay makes every statement take at least delay.
func (d *FakeDriver) SetDelay(delay time.Duration) {
	d.mu.Lock()
	d.delay = delay
	d.mu.Unlock()
}

// Connects returns the number of successful Connect calls.
func (d *FakeDriver) Connects() int {
	return int(d.connects.Load())
}

// Closes returns the number of closed connections.
func (d *FakeDriver) Closes() int {
	return int(d.closes.Load())
}

// Conns returns every connection opened so far, in creation order.
func (d *FakeDriver) Conns() []*FakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.conns)
}

// Log returns every statement executed across all connections, in order.
func (d *FakeDriver) Log() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.log)
}

// SQL returns the statement texts of Log.
func (d *FakeDriver) SQL() []string {
	calls := d.Log()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.SQL
	}
	return out
}

func (d *FakeDriver) record(c Call) (time.Duration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = append(d.log, c)
	return d.delay, d.failures[c.SQL]
}

// FakeConn implements ports.RawConn and records what it executes.
type FakeConn struct {
	id     int
	driver *FakeDriver

	active atomic.Int32
	closed atomic.Bool

	mu       sync.Mutex
	executed []string
	overlaps int
}

var _ ports.RawConn = (*FakeConn)(nil)

// ID returns the creation ordinal of the connection, starting at 1.
func (c *FakeConn) ID() int {
	return c.id
}

// Execute records sql and answers with one row echoing the statement.
func (c *FakeConn) Execute(ctx context.Context, sql string, args []any) (domain.Rows, error) {
	if c.closed.Load() {
		return domain.Rows{}, domain.MarkBadConnection(ErrClosed)
	}
	if c.active.Add(1) > 1 {
		c.mu.Lock()
		c.overlaps++
		c.mu.Unlock()
	}
	defer c.active.Add(-1)

	c.mu.Lock()
	c.executed = append(c.executed, sql)
	c.mu.Unlock()

	delay, failure := c.driver.record(Call{ConnID: c.id, SQL: sql, Args: args})
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.Rows{}, ctx.Err()
		}
	}
	if failure != nil {
		return domain.Rows{}, failure
	}

	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(sql)), "select") {
		return domain.Rows{
			Columns:      []string{"sql", "args"},
			Values:       [][]any{{sql, len(args)}},
			RowsAffected: -1,
		}, nil
	}
	return domain.Rows{RowsAffected: 0}, nil
}

// Close marks the connection closed. Closing twice is an error.
func (c *FakeConn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("testutil: conn %d closed twice", c.id)
	}
	c.driver.closes.Add(1)
	return nil
}

// Closed reports whether Close was called.
func (c *FakeConn) Closed() bool {
	return c.closed.Load()
}

// Executed returns the statements run on this connection, in order.
func (c *FakeConn) Executed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.executed)
}

// Overlaps returns how many statements started while another was running.
func (c *FakeConn) Overlaps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlaps
}
