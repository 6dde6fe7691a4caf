package shared

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// InitLogger builds the process-wide logger from the logging config section
// and installs it as the slog default. Unknown values fall back to info/json.
func InitLogger(format, level string) *slog.Logger {
	logger := NewLogger(os.Stdout, format, level)
	slog.SetDefault(logger)
	return logger
}

// NewLogger writes structured QA logs to w; tests pass a buffer here.
func NewLogger(w io.Writer, format, level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
