// Package config handles application configuration via environment variables.
// It uses kelseyhightower/envconfig for parsing and provides sensible defaults.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"

	"dbclient/src/core/domain"
	"dbclient/src/core/pool"
)

// Supported values for APP_DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

// redactedPassword matches what url.URL.Redacted writes.
const redactedPassword = "xxxxx"

var pgPasswordPattern = regexp.MustCompile(`(?i)(password\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)

// Config holds all application configuration.
// Values are loaded from environment variables with the prefix "APP".
// Example: APP_DB_DRIVER=postgres, APP_POOL_MAX=20
type Config struct {
	// Client identity and tracing
	Client ClientConfig

	// Connection settings handed to the driver
	Database DatabaseConfig

	// Pool bounds and timers
	Pool PoolConfig

	// Admin HTTP server configuration
	Server ServerConfig

	// Logging configuration
	Log LogConfig
}

// ClientConfig holds client-level settings.
type ClientConfig struct {
	// Name identifies the client and its pool (default: default)
	Name string `envconfig:"CLIENT_NAME" default:"default"`

	// Debug traces every statement with its bindings (default: false)
	Debug bool `envconfig:"DEBUG" default:"false"`
}

// DatabaseConfig holds connection settings.
type DatabaseConfig struct {
	// Driver selects the raw connection adapter: postgres, mysql or sqlite3 (required)
	Driver string `envconfig:"DB_DRIVER"`

	// DSN is used verbatim when set; otherwise it is assembled from the fields below.
	// For sqlite3 it is the database file path or ":memory:".
	DSN string `envconfig:"DB_DSN"`

	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`

	// SSLMode is the postgres SSL mode (default: disable)
	SSLMode string `envconfig:"DB_SSLMODE" default:"disable"`

	// ConnectTimeout bounds a single connect attempt (default: 5s)
	ConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`
}

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	// Min is the number of connections kept open (default: 2)
	Min int `envconfig:"POOL_MIN" default:"2"`

	// Max is the upper bound on open connections (default: 10)
	Max int `envconfig:"POOL_MAX" default:"10"`

	// IdleTimeout evicts connections idle for longer (default: 30s)
	IdleTimeout time.Duration `envconfig:"POOL_IDLE_TIMEOUT" default:"30s"`

	// AcquireTimeout bounds the wait for a free connection (default: 10s)
	AcquireTimeout time.Duration `envconfig:"POOL_ACQUIRE_TIMEOUT" default:"10s"`

	// ReapInterval is the period of the idle sweep (default: 1s)
	ReapInterval time.Duration `envconfig:"POOL_REAP_INTERVAL" default:"1s"`
}

// ServerConfig holds admin HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// Host is the HTTP server host (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// ReadTimeout is the maximum duration for reading the entire request (default: 10s)
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`

	// WriteTimeout is the maximum duration before timing out writes of the response (default: 30s)
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish (default: 30s)
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// HealthTimeout bounds each pool probe of /health/detailed (default: 2s)
	HealthTimeout time.Duration `envconfig:"HEALTH_TIMEOUT" default:"2s"`

	// EnableQuery routes POST /v1/clients/:name/query (default: false)
	EnableQuery bool `envconfig:"ADMIN_QUERY_ENABLED" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Format is the log format: json, text, plain (default: json)
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PoolConfig converts the settings to the pool's own type.
func (c *PoolConfig) PoolConfig() pool.Config {
	return pool.Config{
		Min:            c.Min,
		Max:            c.Max,
		IdleTimeout:    c.IdleTimeout,
		AcquireTimeout: c.AcquireTimeout,
		ReapInterval:   c.ReapInterval,
	}
}

// Validate reports missing or inconsistent connection settings.
func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverMySQL:
		if c.DSN == "" && c.Name == "" {
			return domain.NewConfigurationError("DB_NAME", "required when DB_DSN is not set")
		}
	case DriverSQLite:
		if c.DSN == "" {
			return domain.NewConfigurationError("DB_DSN", "required for sqlite3")
		}
	case "":
		return domain.NewConfigurationError("DB_DRIVER", "connection settings are required")
	default:
		return domain.NewConfigurationError("DB_DRIVER", fmt.Sprintf("unsupported driver %q", c.Driver))
	}
	return nil
}

// ConnString returns the driver-specific connection string.
func (c *DatabaseConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.Driver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.portOr(3306))
		mc.DBName = c.Name
		mc.ParseTime = true
		mc.Timeout = c.ConnectTimeout
		return mc.FormatDSN()
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     fmt.Sprintf("%s:%d", c.Host, c.portOr(5432)),
			Path:     "/" + c.Name,
			RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
		}
		return u.String()
	default:
		return ""
	}
}

// Redacted returns ConnString with the password masked, for logs.
func (c *DatabaseConfig) Redacted() string {
	if c.DSN == "" {
		masked := *c
		if masked.Password != "" {
			masked.Password = redactedPassword
		}
		return masked.ConnString()
	}

	switch c.Driver {
	case DriverMySQL:
		mc, err := mysql.ParseDSN(c.DSN)
		if err != nil {
			return redactedPassword
		}
		if mc.Passwd != "" {
			mc.Passwd = redactedPassword
		}
		return mc.FormatDSN()
	case DriverPostgres:
		if u, err := url.Parse(c.DSN); err == nil && u.Scheme != "" {
			return u.Redacted()
		}
		return pgPasswordPattern.ReplaceAllString(c.DSN, "${1}"+redactedPassword)
	default:
		return c.DSN
	}
}

func (c *DatabaseConfig) portOr(def int) int {
	if c.Port > 0 {
		return c.Port
	}
	return def
}

// Load reads configuration from environment variables.
// It returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	var cfg Config

	// Load each config section separately to flatten env var names
	// This allows env vars like APP_PORT instead of APP_SERVER_PORT
	if err := envconfig.Process("APP", &cfg.Client); err != nil {
		return nil, fmt.Errorf("failed to load client config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Pool); err != nil {
		return nil, fmt.Errorf("failed to load pool config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
