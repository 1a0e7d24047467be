package domain

// Query is one statement text with its ordered bindings.
type Query struct {
	SQL  string
	Args []any
}

// Statement is the compiled form of a builder. It is either a Single query
// or a Batch of queries that must run in order on one connection.
type Statement interface {
	// Queries returns the queries in execution order.
	Queries() []Query

	statement()
}

// Single is a statement consisting of exactly one query.
type Single struct {
	Query
}

// Batch is an ordered sequence of queries, used for multi-step schema operations.
type Batch struct {
	Items []Query
}

// NewSingle builds a Single statement. A nil args list is normalized to empty.
func NewSingle(sql string, args ...any) Single {
	if args == nil {
		args = []any{}
	}
	return Single{Query: Query{SQL: sql, Args: args}}
}

// NewBatch builds a Batch statement from queries.
func NewBatch(queries ...Query) Batch {
	items := make([]Query, len(queries))
	for i, q := range queries {
		if q.Args == nil {
			q.Args = []any{}
		}
		items[i] = q
	}
	return Batch{Items: items}
}

func (s Single) Queries() []Query { return []Query{s.Query} }
func (Single) statement()         {}

func (b Batch) Queries() []Query { return b.Items }
func (Batch) statement()         {}

// Rows is the raw driver result of one query.
type Rows struct {
	Columns []string `json:"columns"`
	Values  [][]any  `json:"values"`

	// RowsAffected is -1 when the driver does not report it.
	RowsAffected int64 `json:"rows_affected"`
}

// Len returns the number of returned rows.
func (r Rows) Len() int {
	return len(r.Values)
}

// Result carries the rows of every executed query, positionally.
type Result struct {
	Sets  []Rows `json:"sets"`
	Batch bool   `json:"batch"`
}

// First returns the rows of the first query, the only one for a Single statement.
func (r Result) First() Rows {
	if len(r.Sets) == 0 {
		return Rows{RowsAffected: -1}
	}
	return r.Sets[0]
}
