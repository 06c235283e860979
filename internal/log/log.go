// Package log configures structured logging for the gemini CLI using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Level maps verbosity flags to a slog level.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above, including one line per backend call
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing to w, as text or as JSON lines.
func New(w io.Writer, verbose, quiet, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level(verbose, quiet)}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup installs a stderr logger as the slog default and returns it.
func Setup(verbose, quiet, json bool) *slog.Logger {
	logger := New(os.Stderr, verbose, quiet, json)
	slog.SetDefault(logger)
	return logger
}
