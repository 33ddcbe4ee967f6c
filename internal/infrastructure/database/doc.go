// Package database provides SQLite connectivity for the Online School API.
//
// It manages connection setup (WAL mode, busy timeout, foreign keys),
// embedded SQL migrations with per-migration transactions, and health
// checks. SQLite is configured single-writer: the connection pool is
// capped at one open connection.
package database
