// Package logging wraps log/slog into the one shared leveled logger
// threaded through every command, the same way the teacher threads a
// single prefixed *log.Logger through its sync worker and repo layer.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// New builds the process logger. verbose lowers the level to Debug;
// the handler is text when w is a terminal and JSON otherwise, so
// piped/redirected output stays machine-readable.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// Component returns a logger scoped with a "[component]"-style tag,
// mirroring the teacher's log.Printf("[sync] ...") prefix convention.
func Component(base *slog.Logger, name string) *slog.Logger {
	return base.With("component", name)
}

// RunID mints a correlation id for one run of a long-lived operation
// (update, convention enforce), so its log lines can be grepped together.
func RunID() string {
	return uuid.NewString()
}
