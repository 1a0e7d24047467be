package driver

import (
	"fmt"
	"log/slog"

	"dbclient/src/core/domain"
	"dbclient/src/core/ports"
	"dbclient/src/infra/config"
)

// New returns the connector for cfg.Driver.
func New(cfg config.DatabaseConfig, log *slog.Logger) (ports.Connector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		conn ports.Connector
		err  error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		conn, err = NewPostgres(cfg.ConnString(), cfg.ConnectTimeout)
	case config.DriverMySQL:
		conn, err = NewMySQL(cfg.ConnString())
	case config.DriverSQLite:
		conn, err = NewSQLite(cfg.ConnString())
	default:
		return nil, domain.NewConfigurationError("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.Driver))
	}
	if err != nil {
		return nil, err
	}

	log.Info("database connector configured",
		"driver", cfg.Driver,
		"dsn", cfg.Redacted(),
	)
	return conn, nil
}
