// Package walk implements the autodoc command's tree traversal: it finds
// every .c/.h file under a source tree and renders each into a mirrored
// reST tree, concurrently (an errgroup worker per file, with an indexed
// result slice so completion order doesn't reorder results).
package walk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/return42/linuxdoc/kdoc"
	"github.com/return42/linuxdoc/kdoc/rst"
)

// sourceExts lists the file extensions autodoc treats as kernel-doc bearing.
var sourceExts = map[string]bool{".c": true, ".h": true}

// FileResult is one rendered source file's outcome.
type FileResult struct {
	SrcPath string
	DocPath string
	Err     error
}

// Result is the outcome of walking an entire tree.
type Result struct {
	Files []FileResult
}

// Failed returns every FileResult with a non-nil Err.
func (r *Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// NewParseOptions builds the ParseOptions shared by every file in a tree,
// with per-file Filename/SrcTree filled in by the walker.
type NewParseOptions func(relPath string) *kdoc.ParseOptions

// Config controls an autodoc run.
type Config struct {
	// MakeOptions builds the per-file ParseOptions. Required.
	MakeOptions NewParseOptions
	// RenderConfig is passed to every file's rst.Translator.
	RenderConfig rst.Config
	// Concurrency bounds how many files are parsed/rendered at once; zero
	// means unbounded (errgroup.Group's default).
	Concurrency int
}

// Run discovers every source file under srcTree and writes its rendered
// reST counterpart under docTree, mirroring the directory structure, then
// writes a toctree index.rst per directory.
func Run(ctx context.Context, srcTree, docTree string, cfg Config) (*Result, error) {
	files, err := discover(srcTree)
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", srcTree)
	}

	result := &Result{Files: make([]FileResult, len(files))}
	dirsSeen := make(map[string]struct{})
	var dirsMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}

	for i, relPath := range files {
		i, relPath := i, relPath
		g.Go(func() error {
			docPath := mirrorPath(docTree, relPath)
			result.Files[i] = FileResult{SrcPath: relPath, DocPath: docPath}

			if err := renderFile(ctx, srcTree, relPath, docPath, cfg); err != nil {
				result.Files[i].Err = err
				return nil // a single file's failure doesn't abort the walk
			}

			dirsMu.Lock()
			dirsSeen[filepath.Dir(docPath)] = struct{}{}
			dirsMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}

	if err := writeIndexes(docTree, dirsSeen); err != nil {
		return result, errors.Wrap(err, "writing autodoc indexes")
	}
	return result, nil
}

// discover returns every .c/.h file under root, relative to root, sorted.
func discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !sourceExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// mirrorPath maps a source-tree-relative path to its reST counterpart under
// docTree, e.g. "drivers/foo.c" -> "<docTree>/drivers/foo.rst".
func mirrorPath(docTree, relPath string) string {
	ext := filepath.Ext(relPath)
	base := strings.TrimSuffix(relPath, ext)
	return filepath.Join(docTree, base+".rst")
}

func renderFile(ctx context.Context, srcTree, relPath, docPath string, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := os.ReadFile(filepath.Join(srcTree, relPath))
	if err != nil {
		return errors.Wrap(err, "reading source file")
	}

	opts := cfg.MakeOptions(relPath)
	null, _ := kdoc.ParseString(ctx, opts, string(src))

	if err := os.MkdirAll(filepath.Dir(docPath), 0o755); err != nil {
		return errors.Wrap(err, "creating doc directory")
	}

	f, err := os.Create(docPath)
	if err != nil {
		return errors.Wrap(err, "creating doc file")
	}
	defer f.Close()

	// Exported-symbol tracking for the undocumented-exports epilog is a
	// per-file GatherContext concern; autodoc renders each file on its own,
	// so there is no cross-file export list to pass here.
	tr := rst.New(f, opts, cfg.RenderConfig, nil)
	null.Replay(tr)
	return nil
}

// writeIndexes writes one index.rst per rendered directory, listing its
// immediate children as a toctree.
func writeIndexes(docTree string, dirs map[string]struct{}) error {
	docTree = filepath.Clean(docTree)
	all := map[string]struct{}{docTree: {}}
	for dir := range dirs {
		for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
			all[d] = struct{}{}
			if d == docTree {
				break
			}
		}
	}

	for dir := range all {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		var names []string
		for _, e := range entries {
			if e.Name() == "index.rst" {
				continue
			}
			name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			names = append(names, name)
		}
		sort.Strings(names)

		var b strings.Builder
		fmt.Fprintf(&b, "%s\n%s\n\n", dir, strings.Repeat("=", len(dir)))
		fmt.Fprintln(&b, ".. toctree::")
		fmt.Fprintln(&b, "   :maxdepth: 1")
		fmt.Fprintln(&b)
		for _, name := range names {
			fmt.Fprintf(&b, "   %s\n", name)
		}

		if err := os.WriteFile(filepath.Join(dir, "index.rst"), []byte(b.String()), 0o644); err != nil {
			return err
		}
	}
	return nil
}
