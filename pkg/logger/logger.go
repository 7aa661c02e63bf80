package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog with JSON output and the component convention the
// binaries share.
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger at the level named by LOG_LEVEL. Empty or
// unknown values mean info.
func New() *Logger {
	return NewWithLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// NewWithLevel creates a logger with a specific log level.
func NewWithLevel(level slog.Level) *Logger {
	return newJSON(os.Stdout, level)
}

// ParseLevel maps a level name (debug, info, warn, error) to its slog
// level, defaulting to info.
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

// Component returns a child logger tagged with the subsystem name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{Logger: l.With("component", name)}
}

func newJSON(w io.Writer, level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))}
}
