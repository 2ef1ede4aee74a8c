package diagnostic

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/logrusorgru/aurora"
	"github.com/return42/linuxdoc/internal/srcbuf"
)

// Pos is a source position, shared with kdoc.Pos (both alias the same
// participle lexer.Position so diagnostics can be built from either package
// without conversion).
type Pos = lexer.Position

// Level is a diagnostic severity.
type Level int

const (
	// Error marks an invariant violation; it makes the overall parse exit
	// nonzero.
	Error Level = iota
	// Warn marks a recoverable condition.
	Warn
	// Info is emitted only when the Logger is verbose (SetVerbose).
	Info
	// Debug is emitted only in debug mode.
	Debug
)

func (l Level) String() string {
	switch l {
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	case Info:
		return "INFO"
	case Debug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

type sourcesKey struct{}

// WithSources attaches a source-buffer lookup to ctx, used to quote the
// offending line when rendering a Diagnostic.
func WithSources(ctx context.Context, sources *srcbuf.Lookup) context.Context {
	return context.WithValue(ctx, sourcesKey{}, sources)
}

// Sources returns the lookup attached to ctx, or an empty one.
func Sources(ctx context.Context) *srcbuf.Lookup {
	sources, ok := ctx.Value(sourcesKey{}).(*srcbuf.Lookup)
	if !ok {
		return srcbuf.NewLookup()
	}
	return sources
}

// Diagnostic is a single error/warning report, attributed to a source
// position.
type Diagnostic struct {
	Pos     lexer.Position
	Level   Level
	Message string
}

// String renders the diagnostic as "<filename>:<line>: :LEVEL: <message>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: :%s: %s", d.Pos.Filename, d.Pos.Line, d.Level, d.Message)
}

// FormatPos returns a lexer.Position formatted as "file:line:col:".
func FormatPos(pos lexer.Position) string {
	return fmt.Sprintf("%s:%d:%d:", pos.Filename, pos.Line, pos.Column)
}

// Pretty renders the diagnostic colored, with the offending source line
// quoted and a caret under the column, when a source buffer is registered
// for d.Pos.Filename in ctx. It falls back to String() otherwise.
func (d Diagnostic) Pretty(ctx context.Context) string {
	color := Color(ctx)

	var levelColor func(interface{}) aurora.Value
	switch d.Level {
	case Error:
		levelColor = color.Red
	case Warn:
		levelColor = color.Yellow
	default:
		levelColor = color.Cyan
	}

	header := color.Sprintf(
		"%s %s: %s",
		color.Bold(FormatPos(d.Pos)),
		levelColor(strings.ToLower(d.Level.String())),
		d.Message,
	)

	fb := Sources(ctx).Get(d.Pos.Filename)
	if fb == nil || d.Pos.Line < 1 || d.Pos.Line > fb.Len() {
		return header
	}

	line, err := fb.Line(d.Pos.Line)
	if err != nil {
		return header
	}

	col := d.Pos.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	padding := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, line[:col])

	return fmt.Sprintf("%s\n%s\n%s%s", header, line, padding, color.Sprintf(levelColor("^")))
}
