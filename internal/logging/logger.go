// Package logging configures log/slog for the CLI and carries the import
// batch id through contexts so every entry written while loading one file
// can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type batchKey struct{}

// New builds a logger writing to w.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup is New that also installs the logger as the slog default.
// The CLI points w at stderr so logs never interleave with results on stdout.
func Setup(w io.Writer, level, format string) *slog.Logger {
	logger := New(w, level, format)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to slog.Level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithBatch returns a context carrying an import batch id.
func WithBatch(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchKey{}, id)
}

// BatchID returns the batch id stored in ctx, or "".
func BatchID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(batchKey{}).(string)
	return id
}

// For returns base with the batch id of ctx and args attached. A nil base
// falls back to slog.Default().
//
//	ctx = logging.WithBatch(ctx, uuid.NewString())
//	logging.For(ctx, logger, "file", path).Info("file loaded", "rows", n)
func For(ctx context.Context, base *slog.Logger, args ...any) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if id := BatchID(ctx); id != "" {
		base = base.With("batch_id", id)
	}
	if len(args) > 0 {
		base = base.With(args...)
	}
	return base
}
