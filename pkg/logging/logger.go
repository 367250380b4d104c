package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the diagnostics logger. Without debug every record
// is discarded; with it, records go to w (stderr when nil) at debug
// level. runID, when set, is attached to every record.
func NewLogger(debug bool, runID string, w io.Writer) *slog.Logger {
	if !debug {
		return slog.New(slog.DiscardHandler)
	}
	if w == nil {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger = logger.With("lib", "nvidia-hide")
	if runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger
}
