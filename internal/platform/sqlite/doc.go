// Package sqlite provides a SQLite implementation of the phrase store using
// the pure-Go modernc.org/sqlite driver.
//
// SQLite has no native timestamp type, so times are stored as fixed-width
// UTC text that sorts in chronological order. Callers should limit the pool
// to a single connection (see Open) because SQLite serializes writers.
package sqlite
