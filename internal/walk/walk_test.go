package walk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/return42/linuxdoc/kdoc"
	"github.com/return42/linuxdoc/kdoc/rst"
)

const sampleSource = `/**
 * frob - frobnicate a widget
 * @w: the widget
 *
 * Return: 0 on success.
 */
int frob(struct widget *w);
`

func TestRunMirrorsTreeAndWritesIndexes(t *testing.T) {
	srcTree := t.TempDir()
	docTree := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(srcTree, "drivers"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcTree, "drivers", "widget.c"), []byte(sampleSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcTree, "ignored.txt"), []byte("not a source file"), 0o644))

	cfg := Config{
		MakeOptions: func(relPath string) *kdoc.ParseOptions {
			return kdoc.NewParseOptions(kdoc.WithFilename(relPath))
		},
		RenderConfig: rst.Config{SkipPreamble: true},
	}

	result, err := Run(context.Background(), srcTree, docTree, cfg)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Empty(t, result.Failed())

	rendered, err := os.ReadFile(filepath.Join(docTree, "drivers", "widget.rst"))
	require.NoError(t, err)
	assert.Contains(t, string(rendered), "frob - frobnicate a widget")

	_, err = os.Stat(filepath.Join(docTree, "drivers", "index.rst"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(docTree, "index.rst"))
	assert.NoError(t, err)
}
