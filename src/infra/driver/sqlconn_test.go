package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"select 1", true},
		{"  SELECT * FROM t", true},
		{"(select 1) union (select 2)", true},
		{"with x as (select 1) select * from x", true},
		{"pragma table_info(t)", true},
		{"show tables", true},
		{"insert into t (a) values (1) returning id", true},
		{"insert into t (a) values (1)\nRETURNING id", true},
		{"delete from t where a = 1\treturning *", true},
		{"update t set a = 2 returning(a)", true},
		{"insert into t (a) values (1)", false},
		{"insert into returning_log (a) values (1)", false},
		{"begin;", false},
		{"commit;", false},
		{"drop table if exists \"t\"", false},
		{"update t set selected = 1", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := returnsRows(tc.query); got != tc.want {
			t.Errorf("returnsRows(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestPostgresBadDSN(t *testing.T) {
	_, err := NewPostgres("postgres://user@host:notaport/db", 0)
	assert.Error(t, err)
}

func TestMySQLBadDSN(t *testing.T) {
	_, err := NewMySQL("not a dsn")
	assert.Error(t, err)
}
