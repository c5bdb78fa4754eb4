// Package store implements savemigrate.SaveStore for PostgreSQL (pgx),
// MySQL (go-sql-driver) and SQLite (modernc.org/sqlite).
//
// Every implementation creates the table with CREATE TABLE IF NOT EXISTS and
// writes each save with a single INSERT ... ON CONFLICT / ON DUPLICATE KEY
// statement, so concurrent writers resolve to last-write-wins inside the
// database. last_updated is supplied by the caller on both insert and update.
//
// Table names are validated with savemigrate.ValidateTableName before they
// are quoted into SQL.
package store
