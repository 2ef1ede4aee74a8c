package kdoc

import (
	"regexp"
	"strings"
)

// Curated regular expressions recognizing the *shapes* kernel-doc comments
// and the declarations behind them take; deliberately not a C grammar.
var (
	// reDocStart matches a line that is exactly "/**", trailing whitespace
	// tolerated.
	reDocStart = regexp.MustCompile(`^\s*/\*\*\s*$`)

	// reDocEnd matches a line containing the comment terminator, possibly
	// with trailing prototype text on the same line.
	reDocEnd = regexp.MustCompile(`\*/`)

	// reDocCom strips the continuation marker ("  * ") from a comment body
	// line, space-tolerant.
	reDocCom = regexp.MustCompile(`^\s*\*\s?(.*)$`)

	// reDocBlock recognizes "DOC: <title>".
	reDocBlock = regexp.MustCompile(`(?i)^DOC:\s*(.*)$`)

	// reParamSection recognizes a parameter section header: @name, a dotted
	// sub-parameter @name.sub, or the varargs marker @....
	reParamSection = regexp.MustCompile(`^(@(?:\.\.\.|[\w]+(?:\.[\w]+)*))\s*:\s*(.*)$`)

	// reTitleSection recognizes a generic "Title: content" header. The
	// trailing-URL guard (content must not start with "//") keeps a line
	// like "See: http://example.com" readable as a section while rejecting
	// a bare "http://example.com" from being split on its scheme colon.
	reTitleSection = regexp.MustCompile(`^([A-Z][\w]*(?:[ \t]+[A-Z]?[\w]*)*)\s*:\s*(.*)$`)

	// reBareTitle recognizes a bare "Title" line (reST mode only), used to
	// wrap a Title: appearing without trailing content on its own line.
	reBareTitle = regexp.MustCompile(`^([A-Z][\w]*(?:[ \t][A-Z][\w]*)*)\s*$`)

	// reSyscallDefine recognizes SYSCALL_DEFINE0..6(name, ...).
	reSyscallDefine = regexp.MustCompile(`^SYSCALL_DEFINE(\d)\(\s*([\s\S]*)\)\s*$`)

	// reTraceEvent recognizes TRACE_EVENT(name, TP_PROTO(...), ...) and
	// DEFINE_SINGLE_EVENT(name, TP_PROTO(...), ...).
	reTraceEvent = regexp.MustCompile(`^(?:TRACE_EVENT|DEFINE_SINGLE_EVENT)\(\s*(\w+)\s*,`)

	// reDefineEvent recognizes DEFINE_EVENT(class, name, TP_PROTO(...), ...).
	reDefineEvent = regexp.MustCompile(`^DEFINE_EVENT\(\s*(\w+)\s*,\s*(\w+)\s*,`)

	// reTPProto locates the TP_PROTO( marker; its argument list is then
	// extracted with balancedParen since it may itself contain parens.
	reTPProto = regexp.MustCompile(`TP_PROTO\(`)

	// reExportMacro recognizes a macro-form export invocation,
	// `MACRO(name);`. Which macro names count is decided by the caller
	// against ParseOptions.ExpIDs (EXPORT_SYMBOL and variants by default).
	reExportMacro = regexp.MustCompile(`^(\w+)\(\s*(\w+)\s*\)\s*;?\s*$`)

	// reExportAttr recognizes the attribute form: `EXPORT_ATTR type name(...)`.
	reExportAttr = regexp.MustCompile(`^(\w+)\s+[\w\*\s]+?\b(\w+)\s*\(`)

	// reModuleMeta recognizes MODULE_AUTHOR/DESCRIPTION/LICENSE("...").
	reModuleMeta = regexp.MustCompile(`^MODULE_(AUTHOR|DESCRIPTION|LICENSE)\(\s*"((?:[^"\\]|\\.)*)"\s*\)\s*;?\s*$`)

	// reParseOptionDirective recognizes an inline `/* parse-<opt>: <value> */`.
	reParseOptionDirective = regexp.MustCompile(`^\s*/\*\s*parse-([\w-]+):\s*(.*?)\s*\*/\s*$`)

	// reDefineFunctionLike recognizes a function-like macro definition,
	// `#define name(args)`. The "(" must follow the name immediately: a
	// space there makes the parenthesis part of the replacement text and
	// the macro object-like.
	reDefineFunctionLike = regexp.MustCompile(`^#define\s+(\w+)\(([^)]*)\)`)

	// reInlineLineComment strips a trailing "//..." comment.
	reInlineLineComment = regexp.MustCompile(`//.*$`)

	// reInlineBlockComment strips a "/*...*/" inline comment.
	reInlineBlockComment = regexp.MustCompile(`/\*.*?\*/`)

	// reAttributeClause finds the start of a __attribute__(( clause; the
	// matching close is found with balancedParen since RE2 cannot express
	// nested-parenthesis matching directly.
	reAttributeClause = regexp.MustCompile(`__attribute__\s*\(\(`)

	// reAligned matches __aligned(n) and CRYPTO_MINALIGN_ATTR.
	reAligned = regexp.MustCompile(`__aligned\s*\([^)]*\)|CRYPTO_MINALIGN_ATTR`)

	// reKmemcheckBitfield matches kmemcheck_bitfield_*; cleanup lines.
	reKmemcheckBitfield = regexp.MustCompile(`kmemcheck_bitfield_\w+\s*;`)

	// rePrivateSection matches "/* private: ... " up to the matching
	// "/* public: */" (or end of struct) for struct/union body cleanup.
	rePrivateSection = regexp.MustCompile(`(?s)/\*\s*private:.*?(?:/\*\s*public:\s*\*/|$)`)

	// reDeclareBitmap / reDeclareHashtable / reDeclareKfifo / reDeclareKfifoPtr
	// expand the DECLARE_* struct-member macros.
	reDeclareBitmap    = regexp.MustCompile(`DECLARE_BITMAP\s*\(\s*(\w+)\s*,\s*([^)]+)\)`)
	reDeclareHashtable = regexp.MustCompile(`DECLARE_HASHTABLE\s*\(\s*(\w+)\s*,\s*([^)]+)\)`)
	reDeclareKfifo     = regexp.MustCompile(`DECLARE_KFIFO\s*\(\s*(\w+)\s*,\s*([^,]+),\s*([^)]+)\)`)
	reDeclareKfifoPtr  = regexp.MustCompile(`DECLARE_KFIFO_PTR\s*\(\s*(\w+)\s*,\s*([^)]+)\)`)

	// reNestedStructMember matches one level of nested anonymous struct or
	// union member: "struct { ... } a, *b;".
	reNestedStructMember = regexp.MustCompile(`(?s)(struct|union)\s*\{([^{}]*)\}\s*([^;{}]*);`)

	// reAnyBrace matches a brace-delimited body with no further nesting,
	// used to drop remaining (deeper-than-one-level) struct/union bodies
	// after one level of flattening has already run.
	reAnyBrace = regexp.MustCompile(`\{[^{}]*\}`)

	// reBitfield matches a "name:width" bitfield declarator. On an unnamed
	// bitfield ("unsigned int :3") the captured name is the last word of the
	// type; the caller recognizes that case and skips the member.
	reBitfield = regexp.MustCompile(`^(.*?)\b(\w*)\s*:\s*(\d+)$`)

	// reFuncPtrDeclarator matches a pointer-to-function declarator:
	// "ret (*name)(args)".
	reFuncPtrDeclarator = regexp.MustCompile(`(?s)^(.*?)\(\s*\*\s*(\w*)\s*\)\s*\(([\s\S]*)\)$`)

	// reTrailingArray matches one or more trailing array-suffix brackets.
	reTrailingArray = regexp.MustCompile(`(?:\[[^\[\]]*\])+\s*$`)

	// reTrailingIdent captures the final identifier in a declarator, used
	// to split "type name" into its two parts. The optional ".sub" suffix
	// also matches the synthetic dotted sub-member names flattenNestedStructs
	// generates ("point.x"), so re-splitting one of those declarators keeps
	// the dotted name intact instead of only grabbing its last segment.
	reTrailingIdent = regexp.MustCompile(`(\w+(?:\.\w+)?)\s*$`)
)

var knownModifiers = []string{
	"static", "extern", "inline", "__inline__", "__always_inline",
	"noinline", "asmlinkage", "__init", "__init_or_module", "__meminit",
	"__must_check", "__weak",
}

// declKeywords maps the first token of a doc_decl line to a DeclKind, when
// that token introduces an explicit kind.
var declKeywords = map[string]DeclKind{
	"struct":   DeclStruct,
	"union":    DeclUnion,
	"enum":     DeclEnum,
	"typedef":  DeclTypedef,
	"function": DeclFunction,
}

// stripDocCom removes the "* " continuation marker from a comment body
// line, returning the remaining content.
func stripDocCom(line string) string {
	m := reDocCom.FindStringSubmatch(line)
	if m == nil {
		return strings.TrimSpace(line)
	}
	return m[1]
}

// parseDeclHeader implements doc_decl: the comment body's first
// content line identifies the declaration kind and name, with an optional
// trailing "- purpose" on the same line.
func parseDeclHeader(content string) (kind DeclKind, name string, purpose string, hasPurpose bool, ok bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}

	head := content
	if idx := strings.Index(content, " - "); idx >= 0 {
		head = content[:idx]
		purpose = strings.TrimSpace(content[idx+3:])
		hasPurpose = true
	}

	fields := strings.Fields(head)
	if len(fields) == 0 {
		return
	}

	if k, known := declKeywords[fields[0]]; known && len(fields) >= 2 {
		return k, fields[1], purpose, hasPurpose, true
	}
	return DeclFunction, fields[0], purpose, hasPurpose, true
}

// matchDocBlock implements doc_block: "DOC: <title>".
func matchDocBlock(content string) (title string, ok bool) {
	m := reDocBlock.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	title = strings.TrimSpace(m[1])
	if title == "" {
		title = "Introduction"
	}
	return title, true
}

// matchSectionHeader implements doc_sect: either a parameter section
// (@name:, dotted, or @...) or a titled prose section. Both markup modes
// accept the canonical title set plus any other capitalized "Title:" line;
// they diverge only in the highlight pipeline applied to the body
// (kdoc/rst), not in section recognition.
func matchSectionHeader(content string, markup Markup) (name, rest string, isParam bool, ok bool) {
	if m := reParamSection.FindStringSubmatch(content); m != nil {
		// The "@" sigil marks the header; the stored key is the bare
		// parameter name so it lines up with ParameterList entries.
		return strings.TrimPrefix(m[1], "@"), m[2], true, true
	}

	if strings.HasPrefix(strings.TrimSpace(content), "//") {
		return "", "", false, false
	}

	m := reTitleSection.FindStringSubmatch(content)
	if m == nil {
		return "", "", false, false
	}
	// Guard against a bare URL scheme ("http://...") being read as a title.
	if strings.HasPrefix(m[2], "//") {
		return "", "", false, false
	}
	return canonicalSectionName(m[1]), m[2], false, true
}

var canonicalTitles = map[string]string{
	"description":  "Description",
	"context":      "Context",
	"return":       "Return",
	"returns":      "Return",
	"example":      "Example",
	"introduction": "Introduction",
	"intro":        "Introduction",
}

// canonicalSectionName folds known synonyms ("returns"/"intro") onto their
// canonical spelling; any other title passes through unchanged.
func canonicalSectionName(title string) string {
	if canon, ok := canonicalTitles[strings.ToLower(title)]; ok {
		return canon
	}
	return title
}

// balancedParen scans s starting at the byte offset of the first "(" found
// at or after start, and returns the substring between the matching
// parentheses (exclusive) along with the offset just past the closing
// paren. RE2 cannot express nested-parenthesis matching, so callers that
// need it (TP_PROTO(...), __attribute__((...))) use this instead.
func balancedParen(s string, start int) (inner string, end int, ok bool) {
	open := strings.IndexByte(s[start:], '(')
	if open < 0 {
		return "", start, false
	}
	open += start

	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[open+1 : i], i + 1, true
			}
		}
	}
	return "", start, false
}

// stripAttributeClauses removes every __attribute__((...)) clause from s.
func stripAttributeClauses(s string) string {
	for {
		loc := reAttributeClause.FindStringIndex(s)
		if loc == nil {
			return s
		}
		_, end, ok := balancedParen(s, loc[0])
		if !ok {
			return s
		}
		s = s[:loc[0]] + s[end:]
	}
}
