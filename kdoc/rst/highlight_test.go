package rst

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/return42/linuxdoc/kdoc"
)

func TestTypeRefPass(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"struct", "see &struct foo for details", "see :c:type:`struct foo <foo>` for details"},
		{"func", "call foo() first", "call :c:func:`foo` first"},
		{"const", "pass %GFP_KERNEL", "pass ``GFP_KERNEL``"},
		{"param", "the @count argument", "the ``count`` argument"},
		{"env", "set $HOME first", "set ``HOME`` first"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, typeRefPass(c.in))
		})
	}
}

func TestMaskPassEscapesKernelDocMarkup(t *testing.T) {
	out := maskPass("a*b`c|d")
	assert.Equal(t, "a\\*b\\`c\\|d", out)
}

func TestHighlightLinesSkipsLiteralBlock(t *testing.T) {
	opts := kdoc.NewParseOptions(kdoc.WithMarkup(kdoc.MarkupReST))
	body := "call foo() first::\n\n    call foo() again\n\nthen foo() once more"
	out := HighlightLines(opts, body)
	assert.Contains(t, out, "call :c:func:`foo` first::")
	assert.Contains(t, out, "    call foo() again")
	assert.Contains(t, out, "then :c:func:`foo` once more")
}

func TestHighlightOffIsNoop(t *testing.T) {
	opts := kdoc.NewParseOptions()
	opts.HighlightOff = true
	body := "see &struct foo"
	assert.Equal(t, body, HighlightLines(opts, body))
}
