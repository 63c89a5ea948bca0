package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// EnsureTraceID returns ctx carrying a trace id, minting a UUID when it has none.
// A command line run calls it once so all its log lines share one id.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, uuid.NewString())
}

// WithComponent scopes logger to a named component.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}
