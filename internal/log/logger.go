package log

import (
	"io"
	"log/slog"
)

// NewLogger creates a text-format slog.Logger writing to w.
// When verbose is true the level is Debug; otherwise only warnings and
// errors are emitted so normal runs stay quiet on stderr.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level(verbose),
	}))
}

// NewJSONLogger creates a JSON-format slog.Logger writing to w.
// Intended for runs whose log output is consumed by other tooling.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level(verbose),
	}))
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
