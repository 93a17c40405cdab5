// Package log configures the application logger, built on the standard
// slog package. Verbose mode lowers the level to debug; everything else
// stays at info so scan noise does not drown the progress output.
package log

import (
	"io"
	"log/slog"
)

// NewLogger creates a text logger writing to w. With verbose set, debug
// records are emitted as well.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetDefault installs the logger as the process-wide default so library
// code logging through slog ends up in the same stream.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
