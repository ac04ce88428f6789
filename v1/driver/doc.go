// Package driver is the boundary between the client and a SQL server.
//
// A Driver opens one Conn per Target. A Conn runs statement text verbatim and
// returns a buffered Result, so row counts are known before the first row is
// read. GormDriver is the production implementation: it opens the database
// through a gorm dialector and pins a single *sql.Conn, which keeps session
// settings and identity functions bound to the same server session.
//
// Dialects supply everything that differs per engine: DSN construction, default
// port, catalog introspection queries, the identity lookup, session statements
// that make warnings fail the statement, the numeric type names and the literal
// quoting style.
//
// Diagnostics extracts SQLSTATE, native code and message from go-mssqldb, pgx
// and go-sql-driver/mysql errors. IsConnectionLost reports errors after which the
// Conn must be discarded.
package driver
