package command

import (
	"fmt"
	"os"

	cli "github.com/urfave/cli/v2"

	"github.com/return42/linuxdoc/diagnostic"
	"github.com/return42/linuxdoc/internal/srcbuf"
	"github.com/return42/linuxdoc/kdoc"
	"github.com/return42/linuxdoc/kdoc/rst"
)

var restCommand = &cli.Command{
	Name:      "rest",
	Usage:     "emit reStructuredText for one or more source files",
	ArgsUsage: "<file>+",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "id-prefix"},
		&cli.StringFlag{Name: "markup", Value: "reST"},
		&cli.StringSliceFlag{Name: "use-names"},
		&cli.BoolFlag{Name: "exported"},
		&cli.BoolFlag{Name: "internal"},
		&cli.BoolFlag{Name: "list-exports"},
		&cli.StringSliceFlag{Name: "list-internals"},
		&cli.BoolFlag{Name: "skip-preamble"},
		&cli.BoolFlag{Name: "skip-epilog"},
		&cli.StringFlag{Name: "symbols-exported-method", Value: "macro"},
		&cli.StringSliceFlag{Name: "symbols-exported-identifiers"},
		&cli.StringSliceFlag{Name: "known-attrs"},
		&cli.BoolFlag{Name: "sloppy"},
		&cli.BoolFlag{Name: "verbose"},
		&cli.BoolFlag{Name: "debug"},
		&cli.StringFlag{Name: "srctree", EnvVars: []string{"srctree"}},
	},
	Action: restAction,
}

func restAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("rest requires at least one file argument", 1)
	}

	ctx := colorContext(c.Context)
	sources := srcbuf.NewLookup()
	ctx = diagnostic.WithSources(ctx, sources)

	var totalErrors, totalWarnings int
	for _, arg := range c.Args().Slice() {
		path, err := kdoc.ResolveSrcTree(c.String("srctree"), arg)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		opts, err := baseOptions(c, path)
		if err != nil {
			return err
		}

		buf := srcbuf.New(path)
		buf.Write(src)
		sources.Set(path, buf)

		null, parser := kdoc.ParseString(ctx, opts, string(src))
		exported := parser.Context().ExportedSymbols
		totalErrors += opts.Logger.ErrorCount()
		totalWarnings += opts.Logger.WarningCount()

		if c.Bool("list-exports") {
			for _, name := range exported {
				fmt.Fprintln(c.App.Writer, name)
			}
			continue
		}

		if kinds := c.StringSlice("list-internals"); len(kinds) > 0 {
			if err := listInternals(c, null, kinds); err != nil {
				return err
			}
			continue
		}

		events := null.Events
		if c.Bool("exported") || c.Bool("internal") {
			events = filterByExport(events, exported, c.Bool("exported"))
		}

		cfg := rst.Config{
			SkipPreamble: c.Bool("skip-preamble"),
			SkipEpilog:   c.Bool("skip-epilog"),
		}
		tr := rst.New(c.App.Writer, opts, cfg, exported)
		(&kdoc.NullTranslator{Events: events}).Replay(tr)
	}

	return exitIfErrors(c, totalErrors, totalWarnings)
}

func listInternals(c *cli.Context, null *kdoc.NullTranslator, kinds []string) error {
	set, err := parseKindSet(kinds)
	if err != nil {
		return err
	}
	lt := kdoc.NewListTranslator(nil)
	null.Replay(lt)
	for _, kind := range set.Kinds() {
		for _, name := range lt.Names(kind) {
			fmt.Fprintf(c.App.Writer, "[%s] %s\n", kind, name)
		}
	}
	return nil
}

// filterByExport keeps only the events whose Name's export status matches
// wantExported; DOC blocks are never symbols and always pass through
// unfiltered.
func filterByExport(events []kdoc.DeclEvent, exported []string, wantExported bool) []kdoc.DeclEvent {
	exportedSet := make(map[string]struct{}, len(exported))
	for _, name := range exported {
		exportedSet[name] = struct{}{}
	}

	var out []kdoc.DeclEvent
	for _, ev := range events {
		if ev.Kind == kdoc.DeclDoc {
			out = append(out, ev)
			continue
		}
		_, isExported := exportedSet[ev.Name]
		if isExported == wantExported {
			out = append(out, ev)
		}
	}
	return out
}
