package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbclient/src/core/domain"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		desc         string
		dialect      string
		table        string
		wantDrop     string
		wantIfExists string
	}{
		{
			desc:         "postgres plain",
			dialect:      DialectPostgres,
			table:        "users",
			wantDrop:     `drop table "users"`,
			wantIfExists: `drop table if exists "users"`,
		},
		{
			desc:         "postgres schema qualified",
			dialect:      DialectPostgres,
			table:        "public.users",
			wantDrop:     `drop table "public"."users"`,
			wantIfExists: `drop table if exists "public"."users"`,
		},
		{
			desc:         "mysql backticks",
			dialect:      DialectMySQL,
			table:        "app.users",
			wantDrop:     "drop table `app`.`users`",
			wantIfExists: "drop table if exists `app`.`users`",
		},
		{
			desc:         "sqlite escapes embedded quote",
			dialect:      DialectSQLite,
			table:        `we"ird`,
			wantDrop:     `drop table "we""ird"`,
			wantIfExists: `drop table if exists "we""ird"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			g, err := New(tc.dialect)
			require.NoError(t, err)
			if got := g.CompileDropTable(tc.table); got != tc.wantDrop {
				t.Errorf("CompileDropTable() -want/+got\n-%s\n+%s", tc.wantDrop, got)
			}
			if got := g.CompileDropTableIfExists(tc.table); got != tc.wantIfExists {
				t.Errorf("CompileDropTableIfExists() -want/+got\n-%s\n+%s", tc.wantIfExists, got)
			}
		})
	}
}

func TestNewUnsupported(t *testing.T) {
	_, err := New("oracle")
	assert.True(t, domain.IsConfiguration(err))
}
