package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v2"

	"github.com/return42/linuxdoc/diagnostic"
	"github.com/return42/linuxdoc/internal/srcbuf"
	"github.com/return42/linuxdoc/kdoc"
)

var lintdocCommand = &cli.Command{
	Name:      "lintdoc",
	Usage:     "parse kernel-doc comments and report errors/warnings without rendering",
	ArgsUsage: "<file-or-dir>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "verbose"},
		&cli.BoolFlag{Name: "debug"},
		&cli.StringFlag{Name: "srctree", EnvVars: []string{"srctree"}},
	},
	Action: lintdocAction,
}

func lintdocAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("lintdoc requires exactly one file or directory argument", 1)
	}

	root, err := kdoc.ResolveSrcTree(c.String("srctree"), c.Args().Get(0))
	if err != nil {
		return err
	}
	files, err := collectSourceFiles(root)
	if err != nil {
		return err
	}

	ctx := colorContext(c.Context)
	sources := srcbuf.NewLookup()
	ctx = diagnostic.WithSources(ctx, sources)

	var totalErrors, totalWarnings int
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		logger := diagnostic.NewLogger(c.App.ErrWriter)
		logger.SetVerbose(c.Bool("verbose"))
		logger.SetDebug(c.Bool("debug"))

		buf := srcbuf.New(path)
		buf.Write(src)
		sources.Set(path, buf)

		opts := kdoc.NewParseOptions(
			kdoc.WithFilename(path),
			kdoc.WithSrcTree(c.String("srctree")),
			kdoc.WithLogger(logger),
			kdoc.WithGatherContext(c.Bool("verbose")),
		)
		null, parser := kdoc.ParseString(ctx, opts, string(src))

		if c.Bool("verbose") {
			lt := kdoc.NewListTranslator(parser.Context().ExportedSymbols)
			null.Replay(lt)
			for _, name := range lt.UndocumentedExports() {
				logger.Warnf(ctx, kdoc.Pos{Filename: path}, "exported symbol %q has no kernel-doc comment", name)
			}
			fmt.Fprint(c.App.ErrWriter, lt.Index())
		}

		totalErrors += logger.ErrorCount()
		totalWarnings += logger.WarningCount()
	}

	fmt.Fprintf(c.App.ErrWriter, "%d file(s), %d error(s), %d warning(s)\n", len(files), totalErrors, totalWarnings)
	if totalErrors > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// collectSourceFiles expands path to its .c/.h descendants if it is a
// directory, or returns it unchanged if it is a file.
func collectSourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if ext == ".c" || ext == ".h" {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}
