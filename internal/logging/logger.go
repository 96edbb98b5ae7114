// Package logging defines the structured-logging interface the services,
// repositories and HTTP handlers log through. The server wires an slog
// backend; tests plug in a discard logger.
package logging

import "context"

// Logger is a context-aware structured logger. Variadic args are
// alternating keys and values:
//
//	log.Info(ctx, "user created", "user_id", id, "role", role)
type Logger interface {
	// Info logs routine events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs degraded but recoverable conditions, e.g. an
	// unreachable Redis at startup.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key-value pairs on
	// every record. Components tag themselves with a "module" key.
	With(args ...any) Logger
}
