// Package console is the process logger used by every apidoc package.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Log writes leveled, human readable messages to the terminal.
type Log struct {
	// DebugLevel enables Debug output when greater than zero.
	DebugLevel int

	out *log.Logger
}

// Logger is the shared process logger.
var Logger = New(os.Stderr)

// New creates a logger writing to w.
func New(w io.Writer) *Log {
	return &Log{
		out: log.NewWithOptions(w, log.Options{
			Prefix: "apidoc",
			Level:  log.DebugLevel,
		}),
	}
}

// SetOutput redirects the logger.
func (l *Log) SetOutput(w io.Writer) {
	l.out.SetOutput(w)
}

// SetQuiet silences everything below warnings.
func (l *Log) SetQuiet(quiet bool) {
	if quiet {
		l.out.SetLevel(log.WarnLevel)
		return
	}
	l.out.SetLevel(log.DebugLevel)
}

// Debug logs only when DebugLevel is raised.
func (l *Log) Debug(format string, args ...any) {
	if l.DebugLevel <= 0 {
		return
	}
	l.out.Debugf(format, args...)
}

// Info logs progress.
func (l *Log) Info(format string, args ...any) {
	l.out.Infof(format, args...)
}

// Warn logs a non-fatal degradation. It never fails.
func (l *Log) Warn(format string, args ...any) {
	l.out.Warnf(format, args...)
}

// Error logs a failure without aborting.
func (l *Log) Error(format string, args ...any) {
	l.out.Errorf(format, args...)
}

// Printf satisfies the loader Debugger interface.
func (l *Log) Printf(format string, args ...any) {
	l.Debug(format, args...)
}

// Recorder collects warnings in memory. Tests use it in place of the
// terminal logger.
type Recorder struct {
	Warnings []string
}

// Warn records a formatted warning.
func (r *Recorder) Warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
