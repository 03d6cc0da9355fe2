package logutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// OrDiscard returns logger, or a logger that drops everything when logger is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}

// ParseLevel maps a config level name onto a slog level. Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// NewTimingLogger returns a closure that logs a debug message with duration when called.
// Intended for use with defer around storage and network calls.
func NewTimingLogger(logger *slog.Logger, start time.Time, msg string, initialFields ...any) func() {
	return func() {
		fields := append(initialFields, "duration", time.Since(start).String())
		logger.Debug(msg, fields...)
	}
}

// LogAndWrapErr logs err at error level with the given fields and wraps it with msg.
// The %w wrap keeps errors.Is / errors.As working for callers.
func LogAndWrapErr(logger *slog.Logger, msg string, err error, fields ...any) error {
	return logAndWrap(logger, slog.LevelError, msg, err, fields...)
}

// DebugAndWrapErr is LogAndWrapErr at debug level, for failures the caller is expected to absorb.
func DebugAndWrapErr(logger *slog.Logger, msg string, err error, fields ...any) error {
	return logAndWrap(logger, slog.LevelDebug, msg, err, fields...)
}

func logAndWrap(logger *slog.Logger, level slog.Level, msg string, err error, fields ...any) error {
	if err == nil {
		return nil
	}
	// err always goes last
	fields = append(fields, "err", err)
	switch level {
	case slog.LevelDebug:
		logger.Debug(msg, fields...)
	default:
		logger.Error(msg, fields...)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
