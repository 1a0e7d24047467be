package client

import (
	"context"
	"errors"
	"sync"

	"dbclient/src/core/domain"
	"dbclient/src/core/pool"
	"dbclient/src/core/ports"
)

type txState int

const (
	txActive txState = iota
	txFinalizing
	txClosed
)

// Transaction pins one connection from begin to commit or rollback. Statements
// run one at a time in call order. Once finalized the connection is closed
// and removed from the pool; it never returns to the idle set.
type Transaction struct {
	client *Client
	conn   *pool.Conn

	// held for the duration of every statement and of finalization
	mu    sync.Mutex
	state txState

	done chan struct{}
	err  error
}

// StartTransaction acquires a connection and runs begin on it. If begin fails
// the connection goes back to the pool and the driver error is returned.
func (c *Client) StartTransaction(ctx context.Context) (*Transaction, error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := c.control(ctx, conn, domain.StatementBegin); err != nil {
		if relErr := c.ReleaseConnection(conn); relErr != nil {
			c.log.Error("failed to release connection after begin", "cid", conn.ID(), "error", relErr)
		}
		return nil, err
	}

	c.log.Debug("transaction started", "cid", conn.ID())
	return &Transaction{
		client: c,
		conn:   conn,
		done:   make(chan struct{}),
	}, nil
}

// Transaction runs fn inside a transaction. It commits when fn returns nil and
// rolls back otherwise, returning fn's error. If fn finalizes the transaction
// itself, that outcome is returned.
func (c *Client) Transaction(ctx context.Context, fn func(tx *Transaction) error) (err error) {
	tx, err := c.StartTransaction(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			if !tx.finalized() {
				_ = tx.Rollback(ctx)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if !tx.finalized() {
			rbErr := tx.Rollback(ctx)
			var de *domain.Error
			if errors.As(rbErr, &de) && de.Base == domain.ErrTransactionRolledBack && de.Cause != nil {
				c.log.Warn("rollback statement failed", "cid", tx.conn.ID(), "error", de.Cause)
			}
		}
		return err
	}

	if tx.finalized() {
		return tx.Err()
	}
	return tx.Commit(ctx)
}

// Conn returns the pinned connection for use as Request.Conn. The handle is
// invalidated when the transaction finishes; executing on it afterwards fails
// with domain.ErrConnectionState without reaching the driver.
func (t *Transaction) Conn() *pool.Conn {
	return t.conn
}

// Execute runs the builder's statement on the pinned connection.
func (t *Transaction) Execute(ctx context.Context, b ports.Builder) (domain.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != txActive {
		return domain.Result{}, domain.NewTransactionStateError("execute")
	}
	return t.client.Execute(ctx, Request{Conn: t.conn, Builder: b})
}

// Commit runs commit and closes the pinned connection. It returns the error of
// the commit statement, nil on success.
func (t *Transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != txActive {
		return domain.NewTransactionStateError("commit")
	}
	t.state = txFinalizing

	_, err := t.client.control(ctx, t.conn, domain.StatementCommit)
	t.finish(err)
	return err
}

// Rollback runs rollback and closes the pinned connection. The returned error
// always matches domain.ErrTransactionRolledBack; when the rollback statement
// itself failed, that error is wrapped too.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != txActive {
		return domain.NewTransactionStateError("rollback")
	}
	t.state = txFinalizing

	_, err := t.client.control(ctx, t.conn, domain.StatementRollback)
	rbErr := domain.NewRollbackError(err)
	t.finish(rbErr)
	return rbErr
}

// Done is closed once the transaction has been committed or rolled back.
func (t *Transaction) Done() <-chan struct{} {
	return t.done
}

// Err returns the finalization outcome once Done is closed, nil before.
func (t *Transaction) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

func (t *Transaction) finalized() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// finish must be called with mu held.
func (t *Transaction) finish(outcome error) {
	if err := t.client.pool.Destroy(t.conn); err != nil {
		t.client.log.Error("failed to close transaction connection", "cid", t.conn.ID(), "error", err)
	}
	t.state = txClosed
	t.err = outcome
	close(t.done)
}

// control runs a transaction control statement directly on conn. The
// statement hooks do not apply to it.
func (c *Client) control(ctx context.Context, conn *pool.Conn, sql string) (domain.Result, error) {
	return c.run(ctx, conn, domain.NewSingle(sql), c.debug)
}
