// Package driver provides the raw connection adapters the pool is built on.
//
// Each adapter wraps exactly one driver session and implements
// ports.RawConn; its connector implements ports.Connector. Errors that leave
// a session unusable are wrapped with domain.MarkBadConnection so the pool
// destroys the connection instead of recycling it. All other driver errors
// are returned unchanged.
//
// Supported drivers:
//   - postgres: github.com/jackc/pgx/v5
//   - mysql:    github.com/go-sql-driver/mysql
//   - sqlite3:  github.com/mattn/go-sqlite3 (requires cgo)
package driver
