package driver

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbclient/src/core/builder"
	"dbclient/src/core/client"
	"dbclient/src/core/domain"
	"dbclient/src/core/grammar"
	"dbclient/src/core/pool"
	"dbclient/src/core/ports"
)

func openSQLite(t *testing.T, dsn string) ports.RawConn {
	t.Helper()
	conn, err := NewSQLite(dsn)
	require.NoError(t, err)
	raw, err := conn.Connect(context.Background())
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("go-sqlite3 requires cgo")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return raw
}

// asString accepts TEXT values in either representation the driver may use.
func asString(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	s, _ := v.(string)
	return s
}

func TestSQLiteExecute(t *testing.T) {
	raw := openSQLite(t, ":memory:")
	ctx := context.Background()

	_, err := raw.Execute(ctx, "create table users (id integer primary key, name text)", nil)
	require.NoError(t, err)

	res, err := raw.Execute(ctx, "insert into users (name) values (?), (?)", []any{"ada", "grace"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RowsAffected)

	rows, err := raw.Execute(ctx, "select id, name from users where id > ? order by id", []any{0})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, rows.Columns)
	require.Equal(t, 2, rows.Len())
	assert.Equal(t, int64(1), rows.Values[0][0])
	assert.Equal(t, "grace", asString(rows.Values[1][1]))

	_, err = raw.Execute(ctx, "select * from missing", nil)
	require.Error(t, err)
	assert.False(t, domain.IsBadConnection(err))
}

func TestSQLiteTransactionThroughClient(t *testing.T) {
	openSQLite(t, ":memory:")

	dsn := "file:" + filepath.Join(t.TempDir(), "tx.db")
	connector, err := NewSQLite(dsn)
	require.NoError(t, err)

	p, err := pool.New(pool.Config{Max: 2}, connector)
	require.NoError(t, err)
	defer p.Close()
	c, err := client.New(client.Config{Name: "sqlite"}, p)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.Execute(ctx, client.Request{Builder: builder.Raw("create table items (id integer primary key, label text)")})
	require.NoError(t, err)

	err = c.Transaction(ctx, func(tx *client.Transaction) error {
		_, err := tx.Execute(ctx, builder.Raw("insert into items (label) values (?)", "kept"))
		return err
	})
	require.NoError(t, err)

	rollbackErr := errors.New("abort")
	err = c.Transaction(ctx, func(tx *client.Transaction) error {
		if _, err := tx.Execute(ctx, builder.Raw("insert into items (label) values (?)", "dropped")); err != nil {
			return err
		}
		return rollbackErr
	})
	assert.ErrorIs(t, err, rollbackErr)

	res, err := c.Execute(ctx, client.Request{Builder: builder.Sqlizer(
		builder.Statements.PlaceholderFormat(builder.Placeholders("sqlite3")).Select("label").From("items"),
	)})
	require.NoError(t, err)
	rows := res.First()
	require.Equal(t, 1, rows.Len())
	assert.Equal(t, "kept", asString(rows.Values[0][0]))

	g, err := grammar.New(grammar.DialectSQLite)
	require.NoError(t, err)
	res, err = c.Execute(ctx, client.Request{Builder: builder.Schema(g).DropTableIfExists("items").DropTableIfExists("items")})
	require.NoError(t, err)
	assert.True(t, res.Batch)
	assert.Len(t, res.Sets, 2)
}
