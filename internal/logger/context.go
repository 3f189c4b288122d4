package logger

import (
	"context"
	"log/slog"
)

type contextKey string

// ContextKey is where the request-scoped logger lives in a context.
const ContextKey = contextKey("logger")

func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ContextKey, l)
}

// FromContext returns the logger stored by WithContext, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ContextKey).(*slog.Logger); ok {
		return l
	}

	return slog.Default()
}
