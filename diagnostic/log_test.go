package diagnostic

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
)

func TestLoggerCounts(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	ctx := context.Background()

	pos := lexer.Position{Filename: "foo.c", Line: 3, Column: 1}
	l.Warnf(ctx, pos, "missing description of %q", "x")
	l.Errorf(ctx, pos, "duplicate name %q", "foo")
	l.Infof(ctx, pos, "ignored unless verbose")

	if l.WarningCount() != 1 {
		t.Errorf("WarningCount() = %d, want 1", l.WarningCount())
	}
	if l.ErrorCount() != 1 {
		t.Errorf("ErrorCount() = %d, want 1", l.ErrorCount())
	}
	if strings.Contains(buf.String(), "ignored unless verbose") {
		t.Errorf("expected Info diagnostic to be suppressed without verbose, got %q", buf.String())
	}

	l.SetVerbose(true)
	l.Infof(ctx, pos, "now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("expected Info diagnostic after SetVerbose(true), got %q", buf.String())
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Pos:     lexer.Position{Filename: "foo.c", Line: 12},
		Level:   Warn,
		Message: "excess parameter description 'y'",
	}
	want := "foo.c:12: :WARN: excess parameter description 'y'"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
