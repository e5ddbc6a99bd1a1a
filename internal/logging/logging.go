// Package logging builds the debug logger shared by provisioning components.
//
// User-facing progress goes through the status printer; this logger carries
// diagnostic detail (command lines, search path changes) and is silent unless
// verbose output is requested.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/go-logr/logr"
)

// New returns a logr.Logger writing slog text records to w (stderr when nil).
// With verbose set, V(1) records are emitted; otherwise only errors.
func New(w io.Writer, verbose bool) logr.Logger {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelError
	if verbose {
		// logr V(1) maps to slog level -1.
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	})
	return logr.FromSlogHandler(handler).WithName("provisionr")
}

// NewNop returns a logger that drops everything.
func NewNop() logr.Logger {
	return logr.Discard()
}
