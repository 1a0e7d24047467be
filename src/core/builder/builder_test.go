package builder

import (
	"errors"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbclient/src/core/domain"
	"dbclient/src/core/grammar"
	"dbclient/src/core/ports"
)

func TestRaw(t *testing.T) {
	stmt, err := Raw("select * from users where id = $1", 5).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, domain.NewSingle("select * from users where id = $1", 5), stmt)

	stmt, err = Raw("select 1").ToSQL()
	require.NoError(t, err)
	assert.Equal(t, []any{}, stmt.Queries()[0].Args)

	_, err = Raw("").ToSQL()
	assert.True(t, domain.IsValidationError(err))
}

func TestBatch(t *testing.T) {
	stmt, err := Batch(Raw("a"), Raw("b", 1), Raw("c")).ToSQL()
	require.NoError(t, err)
	require.IsType(t, domain.Batch{}, stmt)

	var sqls []string
	for _, q := range stmt.Queries() {
		sqls = append(sqls, q.SQL)
	}
	assert.Equal(t, []string{"a", "b", "c"}, sqls)

	boom := errors.New("boom")
	_, err = Batch(Raw("a"), ports.BuilderFunc(func() (domain.Statement, error) { return nil, boom })).ToSQL()
	assert.ErrorIs(t, err, boom)

	empty := ports.BuilderFunc(func() (domain.Statement, error) { return nil, nil })
	assert.NotPanics(t, func() {
		_, err = Batch(Raw("a"), empty).ToSQL()
	})
	assert.True(t, domain.IsValidationError(err), "got %v", err)

	_, err = Batch().ToSQL()
	assert.True(t, domain.IsValidationError(err))
}

func TestSchema(t *testing.T) {
	g, err := grammar.New(grammar.DialectPostgres)
	require.NoError(t, err)

	stmt, err := Schema(g).DropTableIfExists("public.sessions").DropTable("users").ToSQL()
	require.NoError(t, err)
	assert.Equal(t, domain.NewBatch(
		domain.Query{SQL: `drop table if exists "public"."sessions"`},
		domain.Query{SQL: `drop table "users"`},
	), stmt)

	_, err = Schema(g).ToSQL()
	assert.True(t, domain.IsValidationError(err))

	_, err = Schema(nil).DropTable("x").ToSQL()
	assert.True(t, domain.IsConfiguration(err))
}

func TestSqlizer(t *testing.T) {
	tests := []struct {
		desc     string
		sqlizer  squirrel.Sqlizer
		wantSQL  string
		wantArgs []any
	}{
		{
			desc:     "postgres placeholders",
			sqlizer:  Statements.Select("id", "name").From("users").Where(squirrel.Eq{"id": 3}),
			wantSQL:  "SELECT id, name FROM users WHERE id = $1",
			wantArgs: []any{3},
		},
		{
			desc: "question placeholders",
			sqlizer: squirrel.StatementBuilder.PlaceholderFormat(Placeholders("mysql")).
				Insert("users").Columns("name").Values("ada"),
			wantSQL:  "INSERT INTO users (name) VALUES (?)",
			wantArgs: []any{"ada"},
		},
		{
			desc:     "no bindings",
			sqlizer:  Statements.Delete("users"),
			wantSQL:  "DELETE FROM users",
			wantArgs: []any{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			stmt, err := Sqlizer(tc.sqlizer).ToSQL()
			require.NoError(t, err)
			q := stmt.Queries()[0]
			assert.Equal(t, tc.wantSQL, q.SQL)
			assert.Equal(t, tc.wantArgs, q.Args)
		})
	}

	_, err := Sqlizer(Statements.Select()).ToSQL()
	assert.Error(t, err, "select without columns fails to compile")
}
