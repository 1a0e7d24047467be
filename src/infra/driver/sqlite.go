package driver

import (
	"context"

	"github.com/mattn/go-sqlite3"

	"dbclient/src/core/ports"
)

// SQLite opens single mattn/go-sqlite3 sessions. Each session of an
// in-memory DSN sees its own database unless the DSN enables a shared cache.
type SQLite struct {
	dsn string
	drv *sqlite3.SQLiteDriver
}

var _ ports.Connector = (*SQLite)(nil)

// NewSQLite returns a connector for the database file (or URI) dsn.
func NewSQLite(dsn string) (*SQLite, error) {
	return &SQLite{dsn: dsn, drv: &sqlite3.SQLiteDriver{}}, nil
}

// Connect opens a new session.
func (s *SQLite) Connect(ctx context.Context) (ports.RawConn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := s.drv.Open(s.dsn)
	if err != nil {
		return nil, err
	}
	return newSQLConn(conn, nil), nil
}
