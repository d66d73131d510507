// Package logger provides structured logging functionality for the application.
//
// It builds on the standard library log/slog package: Setup configures a JSON
// (or text, for local development) handler at the configured level, and
// WithLogger/FromContext carry request-scoped loggers through a context.
package logger
