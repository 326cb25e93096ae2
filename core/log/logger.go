package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var logger *slog.Logger

func init() {
	logger = newLogger(os.Stdout, slog.LevelInfo)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// With returns a child logger carrying the given attributes, e.g. an event id
func With(args ...any) *slog.Logger {
	return logger.With(args...)
}

func SetLevel(level slog.Level) {
	logger = newLogger(os.Stdout, level)
}

// SetOutput redirects logging, used by tests to capture output
func SetOutput(w io.Writer, level slog.Level) {
	logger = newLogger(w, level)
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels, defaulting to info
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
