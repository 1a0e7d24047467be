package dto

import (
	"dbclient/src/core/builder"
	"dbclient/src/core/domain"
	"dbclient/src/core/pool"
	"dbclient/src/core/ports"
	"dbclient/src/core/usecase"
)

// StatementRequest is one statement with ordered bindings.
type StatementRequest struct {
	SQL  string `json:"sql" binding:"required"`
	Args []any  `json:"args"`
}

// QueryRequest is the payload for POST /v1/clients/:name/query.
// More than one statement runs as a batch on a single connection.
type QueryRequest struct {
	Statements    []StatementRequest `json:"statements" binding:"required,min=1,dive"`
	Transactional bool               `json:"transactional"`
	Debug         *bool              `json:"debug"`
}

// ToInput converts the request to the query service input.
func (r *QueryRequest) ToInput() usecase.QueryInput {
	var b ports.Builder
	if len(r.Statements) == 1 {
		b = builder.Raw(r.Statements[0].SQL, r.Statements[0].Args...)
	} else {
		parts := make([]ports.Builder, len(r.Statements))
		for i, s := range r.Statements {
			parts[i] = builder.Raw(s.SQL, s.Args...)
		}
		b = builder.Batch(parts...)
	}
	return usecase.QueryInput{
		Builder:       b,
		Transactional: r.Transactional,
		Debug:         r.Debug,
	}
}

// RowsResponse is the result of one executed statement.
type RowsResponse struct {
	Columns      []string `json:"columns"`
	Rows         [][]any  `json:"rows"`
	RowsAffected int64    `json:"rows_affected"`
}

// QueryResponse carries one entry per executed statement, in order.
type QueryResponse struct {
	Batch   bool           `json:"batch"`
	Results []RowsResponse `json:"results"`
}

// FromDomain builds a QueryResponse from an executor result.
func (QueryResponse) FromDomain(r domain.Result) QueryResponse {
	out := QueryResponse{
		Batch:   r.Batch,
		Results: make([]RowsResponse, len(r.Sets)),
	}
	for i, rows := range r.Sets {
		values := rows.Values
		if values == nil {
			values = [][]any{}
		}
		out.Results[i] = RowsResponse{
			Columns:      rows.Columns,
			Rows:         values,
			RowsAffected: rows.RowsAffected,
		}
	}
	return out
}

// PoolResponse is the admin view of one pool.
type PoolResponse struct {
	pool.Stats
	Available int `json:"available"`
}

// FromDomain builds a PoolResponse from a pool snapshot.
func (PoolResponse) FromDomain(s pool.Stats) PoolResponse {
	return PoolResponse{Stats: s, Available: s.Available()}
}

// PoolListResponse wraps the snapshots of every pool.
type PoolListResponse struct {
	Pools []PoolResponse `json:"pools"`
}
