package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbclient/src/core/domain"
	"dbclient/src/core/pool"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_DB_DRIVER", "sqlite3")
	t.Setenv("APP_DB_DSN", ":memory:")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Client.Name)
	assert.False(t, cfg.Client.Debug)
	assert.Equal(t, pool.Config{
		Min:            2,
		Max:            10,
		IdleTimeout:    30 * time.Second,
		AcquireTimeout: 10 * time.Second,
		ReapInterval:   time.Second,
	}, cfg.Pool.PoolConfig())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_DB_DRIVER", "postgres")
	t.Setenv("APP_DB_NAME", "app")
	t.Setenv("APP_CLIENT_NAME", "reports")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("APP_POOL_MIN", "0")
	t.Setenv("APP_POOL_MAX", "4")
	t.Setenv("APP_POOL_IDLE_TIMEOUT", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "reports", cfg.Client.Name)
	assert.True(t, cfg.Client.Debug)
	assert.Equal(t, 0, cfg.Pool.Min)
	assert.Equal(t, 4, cfg.Pool.Max)
	assert.Equal(t, time.Minute, cfg.Pool.IdleTimeout)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		desc    string
		env     map[string]string
		wantCfg bool
	}{
		{desc: "missing driver", env: map[string]string{}, wantCfg: true},
		{desc: "unknown driver", env: map[string]string{"APP_DB_DRIVER": "oracle"}, wantCfg: true},
		{desc: "sqlite without path", env: map[string]string{"APP_DB_DRIVER": "sqlite3"}, wantCfg: true},
		{desc: "postgres without database", env: map[string]string{"APP_DB_DRIVER": "postgres"}, wantCfg: true},
		{desc: "malformed number", env: map[string]string{"APP_DB_DRIVER": "sqlite3", "APP_DB_DSN": "x.db", "APP_POOL_MAX": "many"}},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			t.Setenv("APP_DB_DRIVER", "")
			t.Setenv("APP_DB_DSN", "")
			t.Setenv("APP_DB_NAME", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			if tc.wantCfg {
				assert.True(t, domain.IsConfiguration(err), "got %v", err)
			}
		})
	}
}

func TestConnString(t *testing.T) {
	tests := []struct {
		desc string
		cfg  DatabaseConfig
		want string
	}{
		{
			desc: "explicit dsn wins",
			cfg:  DatabaseConfig{Driver: DriverPostgres, DSN: "postgres://x", Name: "ignored"},
			want: "postgres://x",
		},
		{
			desc: "postgres url",
			cfg:  DatabaseConfig{Driver: DriverPostgres, Host: "db", User: "u", Password: "p", Name: "app", SSLMode: "disable"},
			want: "postgres://u:p@db:5432/app?sslmode=disable",
		},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.ConnString())
		})
	}
}

func TestConnStringMySQL(t *testing.T) {
	cfg := DatabaseConfig{Driver: DriverMySQL, Host: "db", Port: 3307, User: "u", Password: "p", Name: "app"}
	dsn := cfg.ConnString()
	assert.True(t, strings.HasPrefix(dsn, "u:p@tcp(db:3307)/app?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
}

func TestRedacted(t *testing.T) {
	const secret = "p@ss/w#rd"
	tests := []struct {
		desc string
		cfg  DatabaseConfig
		want string
	}{
		{
			desc: "postgres from parts",
			cfg:  DatabaseConfig{Driver: DriverPostgres, Host: "db", User: "app", Password: secret, Name: "x", SSLMode: "disable"},
			want: "postgres://app:xxxxx@db:5432/x?sslmode=disable",
		},
		{
			desc: "postgres url dsn",
			cfg:  DatabaseConfig{Driver: DriverPostgres, DSN: "postgres://app:p%40ss%2Fw%23rd@db:5432/x"},
			want: "postgres://app:xxxxx@db:5432/x",
		},
		{
			desc: "postgres keyword dsn",
			cfg:  DatabaseConfig{Driver: DriverPostgres, DSN: "host=db user=app password='p@ss/w#rd' dbname=x"},
			want: "host=db user=app password=xxxxx dbname=x",
		},
		{
			desc: "mysql from parts",
			cfg:  DatabaseConfig{Driver: DriverMySQL, Host: "db", User: "app", Password: secret, Name: "x"},
		},
		{
			desc: "mysql dsn",
			cfg:  DatabaseConfig{Driver: DriverMySQL, DSN: "app:" + secret + "@tcp(db:3306)/x"},
		},
		{
			desc: "no password",
			cfg:  DatabaseConfig{Driver: DriverPostgres, Host: "db", User: "app", Name: "x", SSLMode: "disable"},
			want: "postgres://app:@db:5432/x?sslmode=disable",
		},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			got := tc.cfg.Redacted()
			assert.NotContains(t, got, "p@ss")
			assert.NotContains(t, got, "p%40ss")
			assert.NotContains(t, got, "w#rd")
			if tc.want != "" {
				assert.Equal(t, tc.want, got)
			}
		})
	}

	mc := DatabaseConfig{Driver: DriverMySQL, Host: "db", User: "app", Password: secret, Name: "x"}
	assert.True(t, strings.HasPrefix(mc.Redacted(), "app:xxxxx@tcp(db:3306)/x"), mc.Redacted())
}
