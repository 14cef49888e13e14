// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Handler builds the standard text handler: common keys are normalized
// ("error" becomes "err") so log lines stay greppable across packages.
func Handler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	})
}

// New creates the application logger. It writes to stderr so stdout stays
// free for command output.
func New(level slog.Level) *slog.Logger {
	return slog.New(Handler(os.Stderr, level))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
