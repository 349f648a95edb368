package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type contextKey struct{}

//nolint:gochecknoglobals // Package-level context key is idiomatic
var loggerKey = contextKey{}

// FromContext returns the logger attached to ctx, or the default logger.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// With returns a context whose logger adds keyvals to every entry. Stages
// further down the call chain log with the same fields.
func With(ctx context.Context, keyvals ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(keyvals...))
}
