package canopy

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the default canopy logger: a text handler on w tagged
// with lib=canopy. Debug records are only emitted when debug is true.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("lib", "canopy")
}

// discardLogger swallows everything. Used when a Context is built without a
// logger so call sites never need a nil check.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
