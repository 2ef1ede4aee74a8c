package rst

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/return42/linuxdoc/kdoc"
)

func TestReindentDefinition(t *testing.T) {
	out := reindentDefinition("struct foo { int a; int b; };")
	assert.Contains(t, out, "int a;")
	assert.Contains(t, out, "int b;")
}

func TestWriteParamFieldsRendersSubParams(t *testing.T) {
	opts := kdoc.NewParseOptions()
	descs := kdoc.NewOrderedMap()
	descs.Set("outer", "the outer member")
	descs.Set("outer.inner", "the nested member")

	ev := kdoc.DeclEvent{
		ParameterList:  []string{"outer", "outer.inner"},
		ParameterDescs: descs,
	}

	var b strings.Builder
	writeParamFields(&b, opts, ev)
	out := b.String()
	assert.Contains(t, out, ":param outer: the outer member")
	assert.Contains(t, out, "outer.inner")
	assert.Contains(t, out, "the nested member")
}

func TestRenderFunctionEmitsAnchorAndDirective(t *testing.T) {
	opts := kdoc.NewParseOptions(kdoc.WithIDPrefix("api"))
	descs := kdoc.NewOrderedMap()
	descs.Set("count", "number of items")
	sections := kdoc.NewOrderedMap()
	sections.Set("Return", "0 on success")

	ev := kdoc.DeclEvent{
		Name:           "frobnicate",
		Purpose:        "frobnicate some items",
		ReturnType:     "int",
		ParameterList:  []string{"count"},
		ParameterTypes: map[string]string{"count": "int"},
		ParameterDescs: descs,
		Sections:       sections,
	}

	var b strings.Builder
	renderFunction(&b, opts, ev)
	out := b.String()
	assert.Contains(t, out, ".. _api.frobnicate:")
	assert.Contains(t, out, "frobnicate - frobnicate some items")
	assert.Contains(t, out, ".. c:function:: int frobnicate(int count)")
	assert.Contains(t, out, ":param count: number of items")
	assert.Contains(t, out, "Return")
}
