// Package grammar renders schema statements for a SQL dialect. It does text
// generation only and never touches a connection.
package grammar

import (
	"strings"

	"dbclient/src/core/domain"
	"dbclient/src/core/ports"
)

// Dialect names accepted by New.
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite3"
)

// Schema implements ports.SchemaGrammar for one identifier quoting style.
type Schema struct {
	quote string
}

var _ ports.SchemaGrammar = Schema{}

// New returns the grammar for dialect.
func New(dialect string) (Schema, error) {
	switch strings.ToLower(dialect) {
	case DialectPostgres, "postgresql", "pgx", DialectSQLite, "sqlite":
		return Schema{quote: `"`}, nil
	case DialectMySQL, "mariadb":
		return Schema{quote: "`"}, nil
	default:
		return Schema{}, domain.NewConfigurationError("driver", "unsupported dialect "+dialect)
	}
}

// WrapTable quotes a possibly schema-qualified table name. Each dotted
// segment is quoted on its own and embedded quote characters are doubled.
func (g Schema) WrapTable(table string) string {
	segments := strings.Split(table, ".")
	for i, s := range segments {
		segments[i] = g.wrapSegment(s)
	}
	return strings.Join(segments, ".")
}

func (g Schema) wrapSegment(s string) string {
	if s == "*" {
		return s
	}
	return g.quote + strings.ReplaceAll(s, g.quote, g.quote+g.quote) + g.quote
}

// CompileDropTable returns the statement that drops table.
func (g Schema) CompileDropTable(table string) string {
	return "drop table " + g.WrapTable(table)
}

// CompileDropTableIfExists returns the statement that drops table when present.
func (g Schema) CompileDropTableIfExists(table string) string {
	return "drop table if exists " + g.WrapTable(table)
}
