package driver

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"dbclient/src/core/domain"
	"dbclient/src/core/ports"
)

const closeTimeout = 5 * time.Second

// Postgres opens single pgx sessions. Pooling is done by the caller.
type Postgres struct {
	cfg *pgx.ConnConfig
}

var _ ports.Connector = (*Postgres)(nil)

// NewPostgres parses dsn once; every Connect uses a copy of the result.
func NewPostgres(dsn string, connectTimeout time.Duration) (*Postgres, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, domain.NewConfigurationError("DB_DSN", err.Error())
	}
	if connectTimeout > 0 {
		cfg.ConnectTimeout = connectTimeout
	}
	return &Postgres{cfg: cfg}, nil
}

// Connect opens a new session.
func (p *Postgres) Connect(ctx context.Context) (ports.RawConn, error) {
	conn, err := pgx.ConnectConfig(ctx, p.cfg.Copy())
	if err != nil {
		return nil, err
	}
	return &postgresConn{conn: conn}, nil
}

type postgresConn struct {
	conn *pgx.Conn
}

// Execute runs sql. Statements without bindings use the simple protocol so
// that text such as "begin;" is sent as is.
func (c *postgresConn) Execute(ctx context.Context, sql string, args []any) (domain.Rows, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if len(args) == 0 {
		rows, err = c.conn.Query(ctx, sql, pgx.QueryExecModeSimpleProtocol)
	} else {
		rows, err = c.conn.Query(ctx, sql, args...)
	}
	if err != nil {
		return domain.Rows{}, c.classify(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := domain.Rows{Columns: make([]string, len(fields))}
	for i, f := range fields {
		out.Columns[i] = f.Name
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return domain.Rows{}, c.classify(err)
		}
		out.Values = append(out.Values, values)
	}
	if err := rows.Err(); err != nil {
		return domain.Rows{}, c.classify(err)
	}
	out.RowsAffected = rows.CommandTag().RowsAffected()
	return out, nil
}

func (c *postgresConn) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return c.conn.Close(ctx)
}

// classify marks err as fatal for the session when pgx has closed it.
func (c *postgresConn) classify(err error) error {
	if c.conn.IsClosed() {
		return domain.MarkBadConnection(err)
	}
	return err
}
