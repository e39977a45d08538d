package elemgo

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/elemgo/element"
)

// Logger wraps slog.Logger with elemgo-specific context.
// This provides structured logging with consistent field names.
//
// All Log helpers are nil-safe, so model internals can call them without
// guarding against a disabled logger.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

func (l *Logger) enabled() bool {
	return l != nil && l.Logger != nil
}

// LogAdd logs an add operation.
func (l *Logger) LogAdd(ctx context.Context, id element.ID, err error) {
	if !l.enabled() {
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "add failed",
			"id", int64(id),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "add completed",
			"id", int64(id),
		)
	}
}

// LogBatchAdd logs a batch add operation.
func (l *Logger) LogBatchAdd(ctx context.Context, count, failed int) {
	if !l.enabled() {
		return
	}
	if failed > 0 {
		l.WarnContext(ctx, "batch add completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
		)
	} else {
		l.InfoContext(ctx, "batch add completed",
			"count", count,
		)
	}
}

// LogUpdate logs an update operation.
func (l *Logger) LogUpdate(ctx context.Context, id element.ID, err error) {
	if !l.enabled() {
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "update failed",
			"id", int64(id),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "update completed",
			"id", int64(id),
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, id element.ID, err error) {
	if !l.enabled() {
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"id", int64(id),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"id", int64(id),
		)
	}
}

// LogCollect logs a collect pass over the store.
func (l *Logger) LogCollect(ctx context.Context, steps, results int, err error) {
	if !l.enabled() {
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "collect failed",
			"steps", steps,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "collect completed",
			"steps", steps,
			"results", results,
		)
	}
}

// LogFilter logs a filter merge into a collector.
func (l *Logger) LogFilter(ctx context.Context, keys int, err error) {
	if !l.enabled() {
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "filter rejected",
			"keys", keys,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "filter accepted",
			"keys", keys,
		)
	}
}

// LogSnapshotSave logs a snapshot save operation.
func (l *Logger) LogSnapshotSave(ctx context.Context, name string, bytes int64, err error) {
	if !l.enabled() {
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "snapshot save failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
			"bytes", bytes,
		)
	}
}

// LogSnapshotLoad logs a snapshot load operation.
func (l *Logger) LogSnapshotLoad(ctx context.Context, name string, count int, err error) {
	if !l.enabled() {
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"name", name,
			"elements", count,
		)
	}
}

// LogJournalReplay logs a journal recovery operation.
func (l *Logger) LogJournalReplay(ctx context.Context, recordsReplayed int, err error) {
	if !l.enabled() {
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "journal replay failed",
			"records_replayed", recordsReplayed,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "journal replay completed",
			"records_replayed", recordsReplayed,
		)
	}
}
