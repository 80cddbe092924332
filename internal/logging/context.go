package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// contextKey keeps the run-logger context entry private to this package.
type contextKey struct{}

//nolint:gochecknoglobals // single key for the run logger
var loggerKey = contextKey{}

// FromContext returns the run logger attached to ctx. File processors run
// on worker goroutines and receive the command's logger this way; when no
// command attached one, the package default is returned.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithLogger attaches a run logger to ctx. Commands call this once, before
// handing the context to the runner, so per-file debug output carries the
// command's fields.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}
