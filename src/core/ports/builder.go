package ports

import "dbclient/src/core/domain"

// Builder produces compiled statements. Implementations decide whether the
// result is a domain.Single or a domain.Batch.
type Builder interface {
	ToSQL() (domain.Statement, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func() (domain.Statement, error)

// ToSQL calls f().
func (f BuilderFunc) ToSQL() (domain.Statement, error) {
	return f()
}

// SchemaGrammar generates DDL text for schema builders. Pure text, no I/O.
type SchemaGrammar interface {
	WrapTable(table string) string
	CompileDropTable(table string) string
	CompileDropTableIfExists(table string) string
}
