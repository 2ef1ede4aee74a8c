package diagnostic

import (
	"context"
	"fmt"
	"io"
)

// Logger accumulates diagnostics and tracks error/warning counts for a
// parse. It is an explicit value threaded through ParseOptions rather than
// a set of process globals, so concurrent per-file parses never share one.
type Logger struct {
	w       io.Writer
	verbose bool
	debug   bool

	errors   int
	warnings int

	diags []Diagnostic
}

// NewLogger returns a Logger writing to w. A nil w discards output but still
// tracks counts, useful for tests that only assert on error/warning totals.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w}
}

// SetVerbose toggles emission of Info-level diagnostics.
func (l *Logger) SetVerbose(v bool) { l.verbose = v }

// SetDebug toggles emission of Debug-level diagnostics.
func (l *Logger) SetDebug(v bool) { l.debug = v }

// Report records a diagnostic and writes it to the configured stream,
// gated by level (Info requires verbose, Debug requires debug).
func (l *Logger) Report(ctx context.Context, d Diagnostic) {
	switch d.Level {
	case Error:
		l.errors++
	case Warn:
		l.warnings++
	case Info:
		if !l.verbose {
			return
		}
	case Debug:
		if !l.debug {
			return
		}
	}

	l.diags = append(l.diags, d)

	if l.w != nil {
		fmt.Fprintln(l.w, d.Pretty(ctx))
	}
}

// Errorf records an Error-level diagnostic at pos.
func (l *Logger) Errorf(ctx context.Context, pos Pos, format string, a ...interface{}) {
	l.Report(ctx, Diagnostic{Pos: pos, Level: Error, Message: fmt.Sprintf(format, a...)})
}

// Warnf records a Warn-level diagnostic at pos.
func (l *Logger) Warnf(ctx context.Context, pos Pos, format string, a ...interface{}) {
	l.Report(ctx, Diagnostic{Pos: pos, Level: Warn, Message: fmt.Sprintf(format, a...)})
}

// Infof records an Info-level diagnostic at pos.
func (l *Logger) Infof(ctx context.Context, pos Pos, format string, a ...interface{}) {
	l.Report(ctx, Diagnostic{Pos: pos, Level: Info, Message: fmt.Sprintf(format, a...)})
}

// ErrorCount returns the number of Error-level diagnostics reported.
func (l *Logger) ErrorCount() int { return l.errors }

// WarningCount returns the number of Warn-level diagnostics reported.
func (l *Logger) WarningCount() int { return l.warnings }

// Diagnostics returns every diagnostic recorded so far, in report order.
func (l *Logger) Diagnostics() []Diagnostic { return l.diags }
