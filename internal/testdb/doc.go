// Package testdb opens migrated databases for tests.
//
// OpenSQLite returns a private in-memory SQLite database and never skips.
// OpenPostgres connects to DATABASE_URL and skips the test when it is unset,
// so Postgres-backed tests only run in environments that provide a server.
package testdb
