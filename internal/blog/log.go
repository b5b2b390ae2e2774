package blog

import (
	"context"
	"io"
	"log/slog"
)

type contextKey struct{}

var loggerKey = &contextKey{}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger returns the logger carried by ctx. Library calls without one stay
// silent.
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}

	return discardLogger
}
