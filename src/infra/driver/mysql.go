package driver

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/go-sql-driver/mysql"

	"dbclient/src/core/domain"
	"dbclient/src/core/ports"
)

// MySQL opens single go-sql-driver/mysql sessions.
type MySQL struct {
	connector driver.Connector
}

var _ ports.Connector = (*MySQL)(nil)

// NewMySQL parses dsn in the go-sql-driver format.
func NewMySQL(dsn string) (*MySQL, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, domain.NewConfigurationError("DB_DSN", err.Error())
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, domain.NewConfigurationError("DB_DSN", err.Error())
	}
	return &MySQL{connector: connector}, nil
}

// Connect opens a new session.
func (m *MySQL) Connect(ctx context.Context) (ports.RawConn, error) {
	conn, err := m.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return newSQLConn(conn, isMySQLBadConn), nil
}

func isMySQLBadConn(err error) bool {
	return errors.Is(err, mysql.ErrInvalidConn)
}
