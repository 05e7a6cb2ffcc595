// Package logger provides structured logging for the service.
//
// It builds on log/slog with JSON output, a configurable level, and helpers
// for carrying a request-scoped logger (with trace and user attributes)
// through a context.Context.
package logger
