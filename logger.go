package kmergraph

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/kmergraph/solid"
	"github.com/hupe1980/kmergraph/wideint"
)

// Logger is the structured logger used for build and snapshot events.
// Every record of one graph carries the same "k" and "width" attributes.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps handler. A nil handler logs text at info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(slog.LevelInfo)
	}
	return &Logger{slog.New(handler)}
}

// NewJSONLogger logs JSON records at level and above to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger logs key=value records at level and above to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithK tags records with the k-mer size.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{l.With("k", k)}
}

// WithWidth tags records with the integer width in bits.
func (l *Logger) WithWidth(w wideint.Width) *Logger {
	return &Logger{l.With("width", int(w))}
}

// outcome logs done at info level, or failed at error level when err is
// set. Success attributes are dropped on failure.
func (l *Logger) outcome(ctx context.Context, done, failed string, err error, common []any, success ...any) {
	if err != nil {
		l.ErrorContext(ctx, failed, append(common, "error", err)...)
		return
	}
	l.InfoContext(ctx, done, append(common, success...)...)
}

// LogBuild logs the end of a graph construction.
func (l *Logger) LogBuild(ctx context.Context, stats solid.Stats, err error) {
	l.outcome(ctx, "build completed", "build failed", err, []any{"sequences", stats.Sequences},
		"kmers", stats.Kmers,
		"solid", stats.Solid,
		"streaming", stats.Streaming,
		"duration", stats.Duration,
	)
}

// LogSave logs a snapshot write of size bytes.
func (l *Logger) LogSave(ctx context.Context, name string, size int64, err error) {
	l.outcome(ctx, "snapshot saved", "snapshot save failed", err, []any{"name", name}, "bytes", size)
}

// LogLoad logs a snapshot read of size bytes.
func (l *Logger) LogLoad(ctx context.Context, name string, size int64, err error) {
	l.outcome(ctx, "snapshot loaded", "snapshot load failed", err, []any{"name", name}, "bytes", size)
}
