package kdoc

import (
	"context"
	"strconv"
	"strings"

	"github.com/return42/linuxdoc/diagnostic"
)

// knownDirectiveOptions and knownMarkupValues feed diagnostic.Suggestion so
// an unrecognized directive or markup value gets a "did you mean" hint.
var (
	knownDirectiveOptions = []string{"highlight", "markup", "snip", "snap"}
	knownHighlightValues  = []string{"on", "off"}
	knownMarkupValues     = []string{"reST", "kernel-doc"}
)

// applyDirective recognizes an inline `/* parse-<opt>: <value> */` line and
// mutates opts in place. It reports handled=true when the line was a
// directive at all, regardless of whether the value was valid; an
// unrecognized value is reported as a parse error through opts.Logger.
func applyDirective(ctx context.Context, opts *ParseOptions, pos Pos, line string) (handled bool) {
	m := reParseOptionDirective.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	opt, value := strings.ToLower(m[1]), strings.TrimSpace(m[2])

	switch opt {
	case "highlight":
		switch value {
		case "on":
			opts.HighlightOff = false
		case "off":
			opts.HighlightOff = true
		default:
			opts.Logger.Errorf(ctx, pos, "unknown parse-highlight value %q%s", value, suggestSuffix(value, knownHighlightValues))
		}

	case "markup":
		switch value {
		case "reST", "rest":
			opts.Markup = MarkupReST
		case "kernel-doc":
			opts.Markup = MarkupKernelDoc
		default:
			opts.Logger.Errorf(ctx, pos, "unknown parse-markup value %q%s", value, suggestSuffix(value, knownMarkupValues))
		}

	case "snip":
		if value == "" {
			opts.Logger.Errorf(ctx, pos, "parse-SNIP requires a snippet name")
			break
		}
		opts.SnipName = value
		opts.Snapping = true

	case "snap":
		opts.Snapping = false
		opts.SnipName = ""

	default:
		opts.Logger.Errorf(ctx, pos, "unknown parse directive %q%s", m[1], suggestSuffix(opt, knownDirectiveOptions))
	}

	return true
}

// suggestSuffix renders a " (did you mean %q?)" hint when diagnostic.
// Suggestion finds a close enough candidate, or "" otherwise.
func suggestSuffix(value string, candidates []string) string {
	if s := diagnostic.Suggestion(value, candidates); s != "" {
		return " (did you mean " + strconv.Quote(s) + "?)"
	}
	return ""
}
