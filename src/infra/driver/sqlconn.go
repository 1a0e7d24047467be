package driver

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"slices"
	"strings"
	"unicode"

	"dbclient/src/core/domain"
)

// sqlConn adapts a database/sql/driver session to ports.RawConn without
// going through database/sql, whose own pool would hide the session.
type sqlConn struct {
	conn  driver.Conn
	isBad func(error) bool
}

func newSQLConn(conn driver.Conn, isBad func(error) bool) *sqlConn {
	return &sqlConn{conn: conn, isBad: isBad}
}

func (c *sqlConn) Execute(ctx context.Context, query string, args []any) (domain.Rows, error) {
	named, err := c.namedValues(args)
	if err != nil {
		return domain.Rows{}, err
	}

	var out domain.Rows
	if returnsRows(query) {
		out, err = c.query(ctx, query, named)
	} else {
		out, err = c.exec(ctx, query, named)
	}
	if err != nil {
		return domain.Rows{}, c.classify(err)
	}
	return out, nil
}

func (c *sqlConn) Close() error {
	return c.conn.Close()
}

func (c *sqlConn) query(ctx context.Context, query string, args []driver.NamedValue) (domain.Rows, error) {
	var (
		rows driver.Rows
		err  = driver.ErrSkip
	)
	if q, ok := c.conn.(driver.QueryerContext); ok {
		rows, err = q.QueryContext(ctx, query, args)
	}
	if errors.Is(err, driver.ErrSkip) {
		var stmt driver.Stmt
		stmt, err = c.prepare(ctx, query)
		if err != nil {
			return domain.Rows{}, err
		}
		defer stmt.Close()
		sq, ok := stmt.(driver.StmtQueryContext)
		if !ok {
			return domain.Rows{}, errors.New("driver: statement does not support queries with context")
		}
		rows, err = sq.QueryContext(ctx, args)
	}
	if err != nil {
		return domain.Rows{}, err
	}
	defer rows.Close()

	out := domain.Rows{Columns: rows.Columns(), RowsAffected: -1}
	dest := make([]driver.Value, len(out.Columns))
	for {
		if err := rows.Next(dest); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return domain.Rows{}, err
		}
		row := make([]any, len(dest))
		for i, v := range dest {
			// drivers may reuse the buffer behind []byte between rows
			if b, ok := v.([]byte); ok {
				v = append([]byte(nil), b...)
			}
			row[i] = v
		}
		out.Values = append(out.Values, row)
	}
	return out, nil
}

func (c *sqlConn) exec(ctx context.Context, query string, args []driver.NamedValue) (domain.Rows, error) {
	var (
		res driver.Result
		err = driver.ErrSkip
	)
	if e, ok := c.conn.(driver.ExecerContext); ok {
		res, err = e.ExecContext(ctx, query, args)
	}
	if errors.Is(err, driver.ErrSkip) {
		var stmt driver.Stmt
		stmt, err = c.prepare(ctx, query)
		if err != nil {
			return domain.Rows{}, err
		}
		defer stmt.Close()
		se, ok := stmt.(driver.StmtExecContext)
		if !ok {
			return domain.Rows{}, errors.New("driver: statement does not support exec with context")
		}
		res, err = se.ExecContext(ctx, args)
	}
	if err != nil {
		return domain.Rows{}, err
	}

	out := domain.Rows{RowsAffected: -1}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	return out, nil
}

func (c *sqlConn) prepare(ctx context.Context, query string) (driver.Stmt, error) {
	if p, ok := c.conn.(driver.ConnPrepareContext); ok {
		return p.PrepareContext(ctx, query)
	}
	return c.conn.Prepare(query)
}

// namedValues converts bindings with the driver's own checker when it has
// one, falling back to the database/sql default conversions.
func (c *sqlConn) namedValues(args []any) ([]driver.NamedValue, error) {
	checker, _ := c.conn.(driver.NamedValueChecker)
	out := make([]driver.NamedValue, len(args))
	for i, a := range args {
		nv := driver.NamedValue{Ordinal: i + 1, Value: a}
		if checker != nil {
			err := checker.CheckNamedValue(&nv)
			if err == nil {
				out[i] = nv
				continue
			}
			if !errors.Is(err, driver.ErrSkip) {
				return nil, domain.NewValidationError("bindings", err.Error())
			}
		}
		v, err := driver.DefaultParameterConverter.ConvertValue(a)
		if err != nil {
			return nil, domain.NewValidationError("bindings", err.Error())
		}
		nv.Value = v
		out[i] = nv
	}
	return out, nil
}

func (c *sqlConn) classify(err error) error {
	if errors.Is(err, driver.ErrBadConn) || (c.isBad != nil && c.isBad(err)) {
		return domain.MarkBadConnection(err)
	}
	return err
}

var rowKeywords = map[string]bool{
	"select":   true,
	"with":     true,
	"show":     true,
	"pragma":   true,
	"explain":  true,
	"values":   true,
	"describe": true,
	"desc":     true,
	"table":    true,
}

// returnsRows guesses from the leading keyword whether query produces a
// result set. Statements with a returning clause count as queries.
func returnsRows(query string) bool {
	s := strings.TrimLeft(query, " \t\r\n(")
	end := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == ';'
	})
	if end < 0 {
		end = len(s)
	}
	if rowKeywords[strings.ToLower(s[:end])] {
		return true
	}
	return slices.Contains(words(s), "returning")
}

// words splits query into lowercase identifier-like tokens.
func words(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
