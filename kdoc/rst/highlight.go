// Package rst renders a recorded kernel-doc comment parse as
// reStructuredText.
package rst

import (
	"regexp"
	"strings"

	"github.com/return42/linuxdoc/kdoc"
)

var (
	reStructRef  = regexp.MustCompile(`&struct\s+([\w.]+)`)
	reUnionRef   = regexp.MustCompile(`&union\s+([\w.]+)`)
	reEnumRef    = regexp.MustCompile(`&enum\s+([\w.]+)`)
	reTypedefRef = regexp.MustCompile(`&typedef\s+([\w.]+)`)
	reFuncRef    = regexp.MustCompile(`(\w+)\(\)`)
	reConstRef   = regexp.MustCompile(`%(\w+)`)
	reParamRef   = regexp.MustCompile(`@([\w.]+|\.\.\.)`)
	reEnvRef     = regexp.MustCompile(`\$(\w+)`)
	reObjField   = regexp.MustCompile(`&(\w+)->(\w+)`)

	reMaskChars   = regexp.MustCompile("[*`|]")
	reEdgeUnders  = regexp.MustCompile(`(^_|_$)`)
	reLiteralOpen = regexp.MustCompile(`::\s*$`)
	reCodeBlock   = regexp.MustCompile(`^\s*\.\.\s+code-block::`)
)

// literalTracker decides whether a line sits inside a reST literal block
// (indented text following a "::" line or a ".. code-block::" directive),
// where neither highlight pass applies.
type literalTracker struct {
	inBlock     bool
	baseIndent  int
	haveBaseline bool
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// next reports whether line itself is inside a literal block, and updates
// state for the following line.
func (t *literalTracker) next(line string) (literal bool) {
	trimmed := strings.TrimRight(line, " \t")

	if t.inBlock {
		if strings.TrimSpace(line) == "" {
			return true
		}
		indent := indentOf(line)
		if !t.haveBaseline {
			t.baseIndent = indent
			t.haveBaseline = true
		}
		if indent < t.baseIndent {
			t.inBlock = false
			t.haveBaseline = false
		} else {
			return true
		}
	}

	if reLiteralOpen.MatchString(trimmed) || reCodeBlock.MatchString(line) {
		t.inBlock = true
		t.haveBaseline = false
	}
	return false
}

// HighlightLines applies the mask pass (kernel-doc markup only) and the
// type-reference pass (both markup modes) to body, line by line, skipping
// literal blocks.
func HighlightLines(opts *kdoc.ParseOptions, body string) string {
	if opts.HighlightOff {
		return body
	}
	lines := strings.Split(body, "\n")
	tracker := &literalTracker{}
	for i, line := range lines {
		if tracker.next(line) {
			continue
		}
		if opts.Markup == kdoc.MarkupKernelDoc {
			line = maskPass(line)
		}
		lines[i] = typeRefPass(line)
	}
	return strings.Join(lines, "\n")
}

// maskPass escapes reST-significant characters so legacy kernel-doc markup
// (which never intended them as reST) renders as literal text.
func maskPass(line string) string {
	line = reMaskChars.ReplaceAllStringFunc(line, func(s string) string { return `\` + s })
	return reEdgeUnders.ReplaceAllStringFunc(line, func(s string) string { return `\` + s })
}

// typeRefPass rewrites embedded type and symbol references into reST cross
// references, applied in both markup modes.
func typeRefPass(line string) string {
	line = reStructRef.ReplaceAllString(line, ":c:type:`struct $1 <$1>`")
	line = reUnionRef.ReplaceAllString(line, ":c:type:`union $1 <$1>`")
	line = reEnumRef.ReplaceAllString(line, ":c:type:`enum $1 <$1>`")
	line = reTypedefRef.ReplaceAllString(line, ":c:type:`typedef $1 <$1>`")
	line = reObjField.ReplaceAllString(line, "``$1.$2``")
	line = reFuncRef.ReplaceAllString(line, ":c:func:`$1`")
	line = reConstRef.ReplaceAllString(line, "``$1``")
	line = reParamRef.ReplaceAllString(line, "``$1``")
	line = reEnvRef.ReplaceAllString(line, "``$1``")
	return line
}
