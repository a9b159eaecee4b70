package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupLogger builds the JSON slog logger used by every binary and installs it as the default.
func SetupLogger(level string) *slog.Logger {
	return SetupLoggerWithWriter(level, os.Stdout)
}

// SetupLoggerWithWriter is SetupLogger with an explicit sink. The dashboard uses it to keep
// log lines off the terminal it draws on.
func SetupLoggerWithWriter(level string, w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	applicationLogger := slog.New(handler)
	slog.SetDefault(applicationLogger)
	return applicationLogger
}

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
