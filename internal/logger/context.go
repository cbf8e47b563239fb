package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

var nop = zap.NewNop()

// ContextWithLogger returns a child context carrying the given logger.
// Middleware uses it to attach a request-scoped logger (request ID fields
// already bound) that deeper layers retrieve with FromContext.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger carried by ctx, or a no-op logger when the
// context has none, so call sites never nil-check.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return nop
}
