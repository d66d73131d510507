// Package postgres provides the PostgreSQL implementation of the
// store.PhraseStore interface. It handles query execution, mapping between
// domain.Phrase and the phrases table, and translation of driver errors
// into the store package's error taxonomy. Connections use the pgx
// database/sql driver registered under the name "pgx".
package postgres
