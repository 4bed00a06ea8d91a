// Package logger builds the structured loggers used by the CLI and the HTTP mode.
package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/hpn/hpn-transform/internal/security"
)

// New returns a slog logger writing to w at the given level. Format "json"
// selects the JSON handler, anything else the text handler. Every record
// passes through security.RedactedHandler, with secrets scrubbed literally.
func New(level, format string, w io.Writer, secrets ...string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(security.NewRedactedHandler(handler, secrets...))
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
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
