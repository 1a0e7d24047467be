package builder

import (
	"dbclient/src/core/domain"
	"dbclient/src/core/ports"
)

// SchemaBuilder collects schema commands and compiles them with a dialect grammar.
type SchemaBuilder struct {
	grammar ports.SchemaGrammar
	cmds    []func(ports.SchemaGrammar) string
}

var _ ports.Builder = (*SchemaBuilder)(nil)

// Schema returns an empty schema builder for grammar.
func Schema(grammar ports.SchemaGrammar) *SchemaBuilder {
	return &SchemaBuilder{grammar: grammar}
}

// DropTable queues "drop table".
func (b *SchemaBuilder) DropTable(table string) *SchemaBuilder {
	b.cmds = append(b.cmds, func(g ports.SchemaGrammar) string { return g.CompileDropTable(table) })
	return b
}

// DropTableIfExists queues "drop table if exists".
func (b *SchemaBuilder) DropTableIfExists(table string) *SchemaBuilder {
	b.cmds = append(b.cmds, func(g ports.SchemaGrammar) string { return g.CompileDropTableIfExists(table) })
	return b
}

// ToSQL compiles the queued commands into a batch, in the order they were added.
func (b *SchemaBuilder) ToSQL() (domain.Statement, error) {
	if b.grammar == nil {
		return nil, domain.NewConfigurationError("grammar", "no schema grammar provided")
	}
	if len(b.cmds) == 0 {
		return nil, domain.NewValidationError("schema", "no commands")
	}
	queries := make([]domain.Query, len(b.cmds))
	for i, cmd := range b.cmds {
		queries[i] = domain.Query{SQL: cmd(b.grammar)}
	}
	return domain.NewBatch(queries...), nil
}
