package client

import (
	"context"

	"dbclient/src/core/domain"
	"dbclient/src/core/pool"
	"dbclient/src/core/ports"
)

// Request is one unit of work for Execute.
type Request struct {
	// Conn, when set, is used as is and left checked out after execution. It
	// must still be held by the caller. Otherwise a connection is acquired for
	// this request and released after it.
	Conn *pool.Conn

	// Builder produces the statement to run.
	Builder ports.Builder

	// Debug overrides the client default for this request when non-nil.
	Debug *bool
}

// Execute compiles the request's builder and runs the statement. A batch runs
// in order on one connection and stops at the first failing query. Driver
// errors are returned unmodified.
func (c *Client) Execute(ctx context.Context, req Request) (res domain.Result, err error) {
	if req.Builder == nil {
		return domain.Result{}, domain.NewValidationError("builder", "no builder provided")
	}
	if req.Conn != nil && !req.Conn.Valid() {
		return domain.Result{}, domain.NewConnectionStateError("execute", req.Conn.ID())
	}
	stmt, err := req.Builder.ToSQL()
	if err != nil {
		return domain.Result{}, err
	}
	if stmt == nil {
		return domain.Result{}, domain.NewValidationError("builder", "compiled to no statement")
	}
	stmt, err = c.prepData(stmt)
	if err != nil {
		return domain.Result{}, err
	}

	conn := req.Conn
	if conn == nil {
		conn, err = c.pool.Acquire(ctx)
		if err != nil {
			return domain.Result{}, err
		}
		defer func() {
			if relErr := c.ReleaseConnection(conn); relErr != nil {
				c.log.Error("failed to release connection", "cid", conn.ID(), "error", relErr)
				if err == nil {
					res, err = domain.Result{}, relErr
				}
			}
		}()
	}

	res, err = c.run(ctx, conn, stmt, c.debugFor(req))
	if err != nil {
		return domain.Result{}, err
	}
	return c.prepResp(res)
}

func (c *Client) run(ctx context.Context, conn *pool.Conn, stmt domain.Statement, debug bool) (domain.Result, error) {
	queries := stmt.Queries()
	_, batch := stmt.(domain.Batch)

	res := domain.Result{
		Sets:  make([]domain.Rows, 0, len(queries)),
		Batch: batch,
	}
	for _, q := range queries {
		if debug {
			c.log.Info("query",
				"sql", q.SQL,
				"bindings", q.Args,
				"cid", conn.ID(),
			)
		}
		rows, err := conn.Exec(ctx, q)
		if err != nil {
			return domain.Result{}, err
		}
		res.Sets = append(res.Sets, rows)
	}
	return res, nil
}

func (c *Client) debugFor(req Request) bool {
	if req.Debug != nil {
		return *req.Debug
	}
	return c.debug
}
