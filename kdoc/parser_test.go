package kdoc

import (
	"context"
	"strings"
	"testing"

	"github.com/return42/linuxdoc/diagnostic"
)

func parseForTest(t *testing.T, opts *ParseOptions, src string) *NullTranslator {
	t.Helper()
	if opts == nil {
		opts = NewParseOptions()
	}
	null, _ := ParseString(context.Background(), opts, src)
	return null
}

func eventNamed(t *testing.T, events []DeclEvent, name string) DeclEvent {
	t.Helper()
	for _, ev := range events {
		if ev.Name == name {
			return ev
		}
	}
	t.Fatalf("no event named %q among %d events", name, len(events))
	return DeclEvent{}
}

// A simple documented function.
func TestParseSimpleFunction(t *testing.T) {
	src := "/**\n * foo - purpose\n * @x: input\n */\nint foo(int x);\n"
	null := parseForTest(t, nil, src)

	if len(null.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(null.Events))
	}
	ev := null.Events[0]
	if ev.Kind != DeclFunction || ev.Name != "foo" {
		t.Fatalf("kind/name = %v/%q", ev.Kind, ev.Name)
	}
	if ev.ReturnType != "int" {
		t.Fatalf("return type = %q", ev.ReturnType)
	}
	if ev.Purpose != "purpose" {
		t.Fatalf("purpose = %q", ev.Purpose)
	}
	if len(ev.ParameterList) != 1 || ev.ParameterList[0] != "x" {
		t.Fatalf("params = %v", ev.ParameterList)
	}
	if ev.ParameterTypes["x"] != "int" {
		t.Fatalf("param types = %v", ev.ParameterTypes)
	}
	desc, _ := ev.ParameterDescs.Get("x")
	if desc != "input" {
		t.Fatalf("x description = %q", desc)
	}
}

// Missing purpose text still emits the declaration, with a
// warning.
func TestParseMissingPurposeWarnsButStillEmits(t *testing.T) {
	var buf strings.Builder
	opts := NewParseOptions(WithLogger(diagnostic.NewLogger(&buf)))
	src := "/**\n * foo\n * @x: input\n */\nvoid foo(int x);\n"
	null := parseForTest(t, opts, src)

	if len(null.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(null.Events))
	}
	if !strings.Contains(buf.String(), "no purpose given") {
		t.Fatalf("expected a missing-purpose warning, got %q", buf.String())
	}
}

// SYSCALL_DEFINE3 normalizes into a function prototype.
func TestParseSyscallDefine3(t *testing.T) {
	src := "/**\n * sys_bar - s\n * @a: A\n * @b: B\n * @c: C\n */\n" +
		"SYSCALL_DEFINE3(bar, int, a, int, b, int, c)\n{\n}\n"
	null := parseForTest(t, nil, src)

	ev := eventNamed(t, null.Events, "sys_bar")
	if len(ev.ParameterList) != 3 {
		t.Fatalf("params = %v", ev.ParameterList)
	}
	for _, p := range ev.ParameterList {
		if ev.ParameterTypes[p] != "int" {
			t.Fatalf("param %q type = %q, want int", p, ev.ParameterTypes[p])
		}
	}
}

// A struct's private section is stripped from the member
// list, so an undocumented private field never becomes an "excess
// description" or leaks into ParameterList.
func TestParseStructPrivateSection(t *testing.T) {
	src := "/**\n * struct s - d\n * @a: x\n */\nstruct s {\n\tint a;\n\t/* private: */\n\tint secret;\n};\n"
	null := parseForTest(t, nil, src)

	ev := eventNamed(t, null.Events, "s")
	if len(ev.ParameterList) != 1 || ev.ParameterList[0] != "a" {
		t.Fatalf("params = %v", ev.ParameterList)
	}
	if ev.ParameterDescs.Has("secret") {
		t.Fatalf("secret should not appear in descriptions: %v", ev.ParameterDescs.Keys())
	}
}

// A DOC block with no attached declaration.
func TestParseDocBlockOnly(t *testing.T) {
	src := "/**\n * DOC: Overview\n *\n * Body text.\n */\n"
	null := parseForTest(t, nil, src)

	if len(null.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(null.Events))
	}
	ev := null.Events[0]
	if ev.Kind != DeclDoc || ev.Name != "Overview" {
		t.Fatalf("kind/name = %v/%q", ev.Kind, ev.Name)
	}
	body, ok := ev.Sections.Get("Overview")
	if !ok || body != "Body text." {
		t.Fatalf("sections = %v", ev.Sections.Keys())
	}
}

// Export scan, macro mode, default EXPORT_SYMBOL ids.
func TestParseExportScanMacroMode(t *testing.T) {
	src := "/**\n * foo - purpose\n */\nint foo(void);\nEXPORT_SYMBOL(foo);\n"
	opts := NewParseOptions(WithGatherContext(true))
	_, parser := ParseString(context.Background(), opts, src)

	exported := parser.Context().ExportedSymbols
	if len(exported) != 1 || exported[0] != "foo" {
		t.Fatalf("exported = %v", exported)
	}
}

func TestParseDuplicateNameIsAnError(t *testing.T) {
	var buf strings.Builder
	opts := NewParseOptions(WithLogger(diagnostic.NewLogger(&buf)))
	src := "/**\n * foo - a\n */\nint foo(void);\n/**\n * foo - b\n */\nint foo(int x);\n"
	parseForTest(t, opts, src)

	if !strings.Contains(buf.String(), "duplicate declaration name") {
		t.Fatalf("expected a duplicate-name error, got %q", buf.String())
	}
}

func TestParseMissingDescriptionAssignsUndescribedSentinel(t *testing.T) {
	src := "/**\n * foo - purpose\n */\nint foo(int x);\n"
	null := parseForTest(t, nil, src)

	ev := null.Events[0]
	desc, ok := ev.ParameterDescs.Get("x")
	if !ok || desc != UndescribedText {
		t.Fatalf("x description = %q, %v", desc, ok)
	}
}

func TestParseExcessParameterDescriptionWarns(t *testing.T) {
	var buf strings.Builder
	opts := NewParseOptions(WithLogger(diagnostic.NewLogger(&buf)))
	src := "/**\n * foo - purpose\n * @x: input\n * @y: not a real param\n */\nint foo(int x);\n"
	parseForTest(t, opts, src)

	if !strings.Contains(buf.String(), "excess description") {
		t.Fatalf("expected an excess-description warning, got %q", buf.String())
	}
}

func TestParseDuplicateSectionConcatenates(t *testing.T) {
	src := "/**\n * foo - purpose\n *\n * Description: first\n *\n * Description: second\n */\nint foo(void);\n"
	null := parseForTest(t, nil, src)

	ev := null.Events[0]
	text, ok := ev.Sections.Get("Description")
	if !ok {
		t.Fatalf("missing Description section: %v", ev.Sections.Keys())
	}
	if !strings.Contains(text, "first") || !strings.Contains(text, "second") {
		t.Fatalf("Description = %q", text)
	}
}

func TestParseEnumDecl(t *testing.T) {
	src := "/**\n * enum color - the colors\n * @RED: red\n * @BLUE: blue\n */\nenum color { RED, BLUE };\n"
	null := parseForTest(t, nil, src)

	ev := eventNamed(t, null.Events, "color")
	if ev.Kind != DeclEnum {
		t.Fatalf("kind = %v", ev.Kind)
	}
	if len(ev.ParameterList) != 2 || ev.ParameterList[0] != "RED" || ev.ParameterList[1] != "BLUE" {
		t.Fatalf("constants = %v", ev.ParameterList)
	}
}

func TestParseTypedefDecl(t *testing.T) {
	src := "/**\n * typedef foo_t - a typedef\n */\ntypedef unsigned long foo_t;\n"
	null := parseForTest(t, nil, src)

	ev := eventNamed(t, null.Events, "foo_t")
	if ev.Kind != DeclTypedef {
		t.Fatalf("kind = %v", ev.Kind)
	}
}

func TestParseSplitDocCommentDocumentsStructMember(t *testing.T) {
	src := "/**\n * struct s - d\n */\nstruct s {\n\tint a;\n\t/**\n\t * @a: the member\n\t */\n\tint b;\n};\n"
	null := parseForTest(t, nil, src)

	ev := eventNamed(t, null.Events, "s")
	desc, ok := ev.ParameterDescs.Get("a")
	if !ok || desc != "the member" {
		t.Fatalf("a description = %q, %v", desc, ok)
	}
}

func TestParseFunctionLikeMacro(t *testing.T) {
	src := "/**\n * clamp - bound a value\n * @v: value\n * @hi: upper bound\n */\n#define clamp(v, hi) ((v) > (hi) ? (hi) : (v))\n"
	null := parseForTest(t, nil, src)

	ev := eventNamed(t, null.Events, "clamp")
	if ev.ReturnType != "" {
		t.Fatalf("macro return type = %q, want empty", ev.ReturnType)
	}
	if len(ev.ParameterList) != 2 || ev.ParameterList[0] != "v" || ev.ParameterList[1] != "hi" {
		t.Fatalf("params = %v", ev.ParameterList)
	}
	desc, _ := ev.ParameterDescs.Get("hi")
	if desc != "upper bound" {
		t.Fatalf("hi description = %q", desc)
	}
}

func TestParseObjectLikeMacroHasNoParameters(t *testing.T) {
	src := "/**\n * MAX_SLOTS - table capacity\n */\n#define MAX_SLOTS 64\n"
	null := parseForTest(t, nil, src)

	ev := eventNamed(t, null.Events, "MAX_SLOTS")
	if ev.ReturnType != "" || len(ev.ParameterList) != 0 {
		t.Fatalf("object-like macro: return %q, params %v", ev.ReturnType, ev.ParameterList)
	}
}

func TestParseExportScanCustomIdentifiers(t *testing.T) {
	src := "/**\n * foo - purpose\n */\nint foo(void);\nMY_EXPORT(foo);\nEXPORT_SYMBOL(bar);\n"
	opts := NewParseOptions(WithGatherContext(true), WithExportIdentifiers("MY_EXPORT"))
	_, parser := ParseString(context.Background(), opts, src)

	exported := parser.Context().ExportedSymbols
	if len(exported) != 1 || exported[0] != "foo" {
		t.Fatalf("exported = %v", exported)
	}
}

// A round-trip test: parse -> Null dump -> replay to a second
// NullTranslator must equal parsing straight into that NullTranslator.
func TestReplayIsDeterministicAndOrderPreserving(t *testing.T) {
	src := "/**\n * a - first\n */\nint a(void);\n/**\n * b - second\n */\nint b(void);\n"
	first := parseForTest(t, nil, src)

	replayed := NewNullTranslator()
	first.Replay(replayed)

	if len(replayed.Events) != len(first.Events) {
		t.Fatalf("replayed %d events, want %d", len(replayed.Events), len(first.Events))
	}
	for i := range first.Events {
		if replayed.Events[i].Name != first.Events[i].Name {
			t.Fatalf("event %d name = %q, want %q", i, replayed.Events[i].Name, first.Events[i].Name)
		}
	}
}

func TestParseUseNamesFiltersEmission(t *testing.T) {
	src := "/**\n * a - first\n */\nint a(void);\n/**\n * b - second\n */\nint b(void);\n"
	opts := NewParseOptions(WithUseNames("a"))
	null := parseForTest(t, opts, src)

	if len(null.Events) != 1 || null.Events[0].Name != "a" {
		t.Fatalf("events = %v", null.Events)
	}
}

func TestParseSkipNamesExcludesEmission(t *testing.T) {
	src := "/**\n * a - first\n */\nint a(void);\n/**\n * b - second\n */\nint b(void);\n"
	opts := NewParseOptions(WithSkipNames("b"))
	null := parseForTest(t, opts, src)

	if len(null.Events) != 1 || null.Events[0].Name != "a" {
		t.Fatalf("events = %v", null.Events)
	}
}

func TestParseUnterminatedCommentWarnsAtEOF(t *testing.T) {
	var buf strings.Builder
	opts := NewParseOptions(WithLogger(diagnostic.NewLogger(&buf)))
	src := "/**\n * foo - purpose\n * @x: input\n"
	parseForTest(t, opts, src)

	if !strings.Contains(buf.String(), "missing */") {
		t.Fatalf("expected a missing */ warning, got %q", buf.String())
	}
}
