// Package logging builds the charmbracelet loggers used across the application.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New returns a timestamped logger writing to w, or stderr when w is nil.
func New(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{ReportTimestamp: true})
}

// NewVerbose is New with the level lowered to debug when verbose is set.
func NewVerbose(w io.Writer, verbose bool) *log.Logger {
	l := New(w)
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops everything. Library packages use it
// when the caller does not supply one.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// With creates a child logger carrying the given key-value pairs.
func With(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}
