// Package builder provides statement builders accepted by the client's executor.
package builder

import (
	"dbclient/src/core/domain"
	"dbclient/src/core/ports"
)

// RawBuilder compiles to one literal query.
type RawBuilder struct {
	sql  string
	args []any
}

var _ ports.Builder = RawBuilder{}

// Raw returns a builder for sql with ordered bindings.
func Raw(sql string, args ...any) RawBuilder {
	return RawBuilder{sql: sql, args: args}
}

// ToSQL implements ports.Builder.
func (b RawBuilder) ToSQL() (domain.Statement, error) {
	if b.sql == "" {
		return nil, domain.NewValidationError("sql", "empty statement")
	}
	return domain.NewSingle(b.sql, b.args...), nil
}

// BatchBuilder concatenates the queries of several builders into one batch
// that runs in order on a single connection.
type BatchBuilder struct {
	parts []ports.Builder
}

var _ ports.Builder = BatchBuilder{}

// Batch returns a builder running every part in order.
func Batch(parts ...ports.Builder) BatchBuilder {
	return BatchBuilder{parts: parts}
}

// ToSQL implements ports.Builder. The first compile error stops the build.
func (b BatchBuilder) ToSQL() (domain.Statement, error) {
	if len(b.parts) == 0 {
		return nil, domain.NewValidationError("batch", "no statements")
	}
	var queries []domain.Query
	for _, part := range b.parts {
		stmt, err := part.ToSQL()
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return nil, domain.NewValidationError("batch", "part compiled to no statement")
		}
		queries = append(queries, stmt.Queries()...)
	}
	return domain.NewBatch(queries...), nil
}
