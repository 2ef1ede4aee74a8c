package rst

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/return42/linuxdoc/kdoc"
)

func TestTranslatorReplayRendersDeclarations(t *testing.T) {
	opts := kdoc.NewParseOptions()
	src := strings.Join([]string{
		"/**",
		" * frob - frobnicate a widget",
		" * @w: the widget",
		" *",
		" * Return: 0 on success.",
		" */",
		"int frob(struct widget *w);",
		"",
	}, "\n")

	null, _ := kdoc.ParseString(context.Background(), opts, src)

	var b strings.Builder
	tr := New(&b, opts, Config{SkipPreamble: true}, nil)
	null.Replay(tr)

	out := b.String()
	assert.Contains(t, out, "frob - frobnicate a widget")
	assert.Contains(t, out, ":param w: the widget")
	assert.Contains(t, out, "Return")
}

// Rendering straight off the parser and rendering a recorded dump must
// produce identical bytes for the same options.
func TestDirectRenderEqualsReplayedRender(t *testing.T) {
	src := strings.Join([]string{
		"/**",
		" * frob - frobnicate a widget",
		" * @w: the widget",
		" */",
		"int frob(struct widget *w);",
		"",
	}, "\n")

	opts := kdoc.NewParseOptions()
	var direct strings.Builder
	kdoc.ParseLines(context.Background(), opts, New(&direct, opts, Config{}, nil), strings.Split(src, "\n"))

	null, _ := kdoc.ParseString(context.Background(), opts, src)
	var replayed strings.Builder
	null.Replay(New(&replayed, opts, Config{}, nil))

	assert.Equal(t, direct.String(), replayed.String())
}

func TestTranslatorEpilogListsUndocumentedExports(t *testing.T) {
	opts := kdoc.NewParseOptions()
	var b strings.Builder
	tr := New(&b, opts, Config{SkipPreamble: true}, []string{"frob", "undocumented_fn"})
	tr.OutputPreamble()
	tr.OutputFunctionDecl(kdoc.DeclEvent{
		Kind:           kdoc.DeclFunction,
		Name:           "frob",
		ParameterDescs: kdoc.NewOrderedMap(),
		Sections:       kdoc.NewOrderedMap(),
	})
	tr.OutputEpilog()

	out := b.String()
	assert.Contains(t, out, "undocumented_fn")
	assert.NotContains(t, out, "- frob\n")
}
