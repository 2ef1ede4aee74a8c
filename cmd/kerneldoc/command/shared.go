package command

import (
	"context"
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	"github.com/return42/linuxdoc/diagnostic"
	"github.com/return42/linuxdoc/kdoc"
)

// colorContext attaches an aurora formatter to ctx, gated by useColor, so
// every diagnostic rendered downstream picks it up without threading a bool
// through every call.
func colorContext(ctx context.Context) context.Context {
	return diagnostic.WithColor(ctx, aurora.NewAurora(useColor()))
}

// parseMarkupFlag maps the --markup flag value to a kdoc.Markup.
func parseMarkupFlag(value string) (kdoc.Markup, error) {
	switch value {
	case "", "reST":
		return kdoc.MarkupReST, nil
	case "kernel-doc":
		return kdoc.MarkupKernelDoc, nil
	default:
		return kdoc.MarkupReST, errors.Errorf("unknown --markup value %q", value)
	}
}

// parseExportMethodFlag maps the --symbols-exported-method flag value to a
// kdoc.ExportMethod.
func parseExportMethodFlag(value string) (kdoc.ExportMethod, error) {
	switch value {
	case "", "macro":
		return kdoc.ExportMacro, nil
	case "attribute":
		return kdoc.ExportAttribute, nil
	default:
		return kdoc.ExportMacro, errors.Errorf("unknown --symbols-exported-method value %q", value)
	}
}

// declKindByName maps the --list-internals vocabulary onto kdoc.DeclKind.
var declKindByName = map[string]kdoc.DeclKind{
	"DOC":     kdoc.DeclDoc,
	"function": kdoc.DeclFunction,
	"struct":   kdoc.DeclStruct,
	"union":    kdoc.DeclUnion,
	"enum":     kdoc.DeclEnum,
	"typedef":  kdoc.DeclTypedef,
}

// parseKindSet parses the comma/repeat values accepted by --list-internals,
// where "all" expands to every kind.
func parseKindSet(values []string) (*kdoc.KindSet, error) {
	var kinds []kdoc.DeclKind
	for _, v := range values {
		if v == "all" {
			return kdoc.AllKinds(), nil
		}
		kind, ok := declKindByName[v]
		if !ok {
			return nil, errors.Errorf("unknown declaration kind %q", v)
		}
		kinds = append(kinds, kind)
	}
	return kdoc.NewKindSet(kinds...), nil
}

// baseOptions builds the rest command's ParseOptions from its flags;
// autodoc and lintdoc build their own.
func baseOptions(c *cli.Context, filename string) (*kdoc.ParseOptions, error) {
	markup, err := parseMarkupFlag(c.String("markup"))
	if err != nil {
		return nil, err
	}
	expMethod, err := parseExportMethodFlag(c.String("symbols-exported-method"))
	if err != nil {
		return nil, err
	}

	logger := diagnostic.NewLogger(c.App.ErrWriter)
	logger.SetVerbose(c.Bool("verbose"))
	logger.SetDebug(c.Bool("debug"))

	opts := []kdoc.ParseOption{
		kdoc.WithFilename(filename),
		kdoc.WithSrcTree(c.String("srctree")),
		kdoc.WithMarkup(markup),
		kdoc.WithIDPrefix(c.String("id-prefix")),
		kdoc.WithVerboseWarn(c.Bool("verbose")),
		kdoc.WithExportMethod(expMethod),
		kdoc.WithLogger(logger),
		kdoc.WithGatherContext(c.Bool("exported") || c.Bool("internal") || c.Bool("list-exports")),
		// --sloppy downgrades "requested name not found" from an error
		// to a warning.
		kdoc.WithErrorMissing(!c.Bool("sloppy")),
	}
	if ids := c.StringSlice("symbols-exported-identifiers"); len(ids) > 0 {
		opts = append(opts, kdoc.WithExportIdentifiers(ids...))
	}
	if attrs := c.StringSlice("known-attrs"); len(attrs) > 0 {
		opts = append(opts, kdoc.WithKnownAttrs(attrs...))
	}
	if names := c.StringSlice("use-names"); len(names) > 0 {
		opts = append(opts, kdoc.WithUseNames(names...))
	}
	return kdoc.NewParseOptions(opts...), nil
}

// exitIfErrors converts the accumulated diagnostic counts into the exit
// code: nonzero iff any error was recorded, with a totals line on stderr.
func exitIfErrors(c *cli.Context, errCount, warnCount int) error {
	if errCount == 0 {
		return nil
	}
	fmt.Fprintf(c.App.ErrWriter, "%d error(s), %d warning(s)\n", errCount, warnCount)
	return cli.Exit("", 1)
}
