// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, so the phrase service runs unchanged
// against PostgreSQL in production and SQLite on a laptop.
package store
