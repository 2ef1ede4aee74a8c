package kdoc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var reWhitespace = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// stripInlineComments removes "//..." and "/*...*/" comments from a single
// source line.
func stripInlineComments(line string) string {
	line = reInlineBlockComment.ReplaceAllString(line, "")
	line = reInlineLineComment.ReplaceAllString(line, "")
	return line
}

// stripJoinedComments runs stripInlineComments over a multi-line body one
// line at a time: reInlineLineComment's "$" anchors to the end of the whole
// string, not each line, so applying it directly to a joined body would eat
// every line after the first "//".
func stripJoinedComments(body string) string {
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = stripInlineComments(l)
	}
	return strings.Join(lines, "\n")
}

// normalizeSyscallDefine rewrites SYSCALL_DEFINE<n>(name, type1, arg1, ...)
// into "long sys_name(type1 arg1, ...)", joining every second comma so a
// (type, name) pair binds to a single parameter token.
// SYSCALL_DEFINE0 always yields "long sys_name(void)".
func normalizeSyscallDefine(line string) (string, bool) {
	m := reSyscallDefine.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}

	parts := splitTopLevelCommas(m[2])
	if len(parts) == 0 {
		return "", false
	}
	name := strings.TrimSpace(parts[0])

	if n == 0 {
		return fmt.Sprintf("long sys_%s(void)", name), true
	}

	rest := parts[1:]
	var params []string
	for i := 0; i+1 < len(rest); i += 2 {
		typ := strings.TrimSpace(rest[i])
		argName := strings.TrimSpace(rest[i+1])
		params = append(params, typ+" "+argName)
	}
	return fmt.Sprintf("long sys_%s(%s)", name, strings.Join(params, ", ")), true
}

// normalizeTraceEvent rewrites TRACE_EVENT/DEFINE_EVENT/DEFINE_SINGLE_EVENT
// invocations into "static inline void trace_<name>(<args>)", pulling
// <args> out of the (possibly nested) TP_PROTO(...) clause.
func normalizeTraceEvent(line string) (string, bool) {
	if m := reTraceEvent.FindStringSubmatch(line); m != nil {
		return buildTraceProto(line, m[1])
	}
	if m := reDefineEvent.FindStringSubmatch(line); m != nil {
		return buildTraceProto(line, m[2])
	}
	return "", false
}

func buildTraceProto(line, name string) (string, bool) {
	loc := reTPProto.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	inner, _, ok := balancedParen(line, loc[0])
	if !ok {
		return "", false
	}
	return fmt.Sprintf("static inline void trace_%s(%s)", name, strings.TrimSpace(inner)), true
}

// scrubPrototype strips leading storage/inline qualifiers, user-configured
// known attributes, and __attribute__((...)) clauses from a function
// prototype before shape matching.
func scrubPrototype(proto string, knownAttrs []string) string {
	proto = stripAttributeClauses(proto)
	proto = strings.TrimSpace(proto)

	modifiers := make([]string, 0, len(knownModifiers)+len(knownAttrs))
	modifiers = append(modifiers, knownModifiers...)
	modifiers = append(modifiers, knownAttrs...)

	for {
		stripped := false
		for _, mod := range modifiers {
			prefix := mod + " "
			if strings.HasPrefix(proto, prefix) {
				proto = strings.TrimSpace(proto[len(prefix):])
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}
	return collapseWhitespace(proto)
}

// cleanStructBody scrubs a struct/union body ahead of member extraction:
// private regions, attributes and the DECLARE_* member macros (nested-struct
// flattening lives in paramlist.go since it must also emit synthetic member
// entries).
func cleanStructBody(body string) string {
	body = rePrivateSection.ReplaceAllString(body, "")
	body = stripJoinedComments(body)
	body = reKmemcheckBitfield.ReplaceAllString(body, "")
	body = stripAttributeClauses(body)
	body = reAligned.ReplaceAllString(body, "")
	body = reDeclareBitmap.ReplaceAllString(body, "unsigned long $1[BITS_TO_LONGS($2)]")
	body = reDeclareHashtable.ReplaceAllString(body, "unsigned long $1[1 << (($2) - 1)]")
	body = reDeclareKfifo.ReplaceAllString(body, "$2 $1")
	body = reDeclareKfifoPtr.ReplaceAllString(body, "$2 $1")
	return body
}
