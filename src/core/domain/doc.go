// Package domain contains the value types shared by the client core.
//
// This package defines:
//   - Statements: the tagged Single/Batch variant a builder compiles to
//   - Rows and Result: raw driver output handed back to callers unchanged
//   - Errors: the pool and lifecycle error kinds synthesized by the core
//   - Defaults: pool bounds and transaction control statements
//
// Rules for this package:
//   - No external dependencies except the standard library
//   - No infrastructure concerns (drivers, HTTP, configuration)
//
// Example:
//
//	stmt := domain.NewBatch(
//	    domain.Query{SQL: "drop table if exists users"},
//	    domain.Query{SQL: "create table users (id int)"},
//	)
//	for _, q := range stmt.Queries() {
//	    fmt.Println(q.SQL)
//	}
package domain
