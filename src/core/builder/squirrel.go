package builder

import (
	"github.com/Masterminds/squirrel"

	"dbclient/src/core/domain"
	"dbclient/src/core/ports"
)

// Statements is a squirrel statement builder with $n placeholders, for
// postgres. Use squirrel.StatementBuilder directly for mysql and sqlite.
var Statements = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// SqlizerBuilder adapts a squirrel builder to ports.Builder.
type SqlizerBuilder struct {
	s squirrel.Sqlizer
}

var _ ports.Builder = SqlizerBuilder{}

// Sqlizer wraps s, typically a squirrel Select/Insert/Update/Delete builder.
func Sqlizer(s squirrel.Sqlizer) SqlizerBuilder {
	return SqlizerBuilder{s: s}
}

// ToSQL implements ports.Builder.
func (b SqlizerBuilder) ToSQL() (domain.Statement, error) {
	if b.s == nil {
		return nil, domain.NewValidationError("sqlizer", "no builder provided")
	}
	sql, args, err := b.s.ToSql()
	if err != nil {
		return nil, err
	}
	return domain.NewSingle(sql, args...), nil
}

// Placeholders returns the squirrel placeholder format for a driver name.
func Placeholders(driver string) squirrel.PlaceholderFormat {
	switch driver {
	case "postgres", "postgresql", "pgx":
		return squirrel.Dollar
	default:
		return squirrel.Question
	}
}
