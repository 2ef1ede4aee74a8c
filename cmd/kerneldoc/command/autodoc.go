package command

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	cli "github.com/urfave/cli/v2"

	"github.com/return42/linuxdoc/internal/walk"
	"github.com/return42/linuxdoc/kdoc"
	"github.com/return42/linuxdoc/kdoc/rst"
)

var autodocCommand = &cli.Command{
	Name:      "autodoc",
	Usage:     "walk a source tree and render a mirrored reST tree",
	ArgsUsage: "<srctree> <doctree>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "id-prefix"},
		&cli.StringFlag{Name: "markup", Value: "reST"},
		&cli.IntFlag{Name: "jobs", Usage: "parallel file renders (0 = unbounded)", Value: runtime.NumCPU()},
	},
	Action: autodocAction,
}

func autodocAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("autodoc requires <srctree> and <doctree> arguments", 1)
	}
	srcTree, docTree := c.Args().Get(0), c.Args().Get(1)

	markup, err := parseMarkupFlag(c.String("markup"))
	if err != nil {
		return err
	}

	ctx := colorContext(c.Context)
	cfg := walk.Config{
		MakeOptions: func(relPath string) *kdoc.ParseOptions {
			return kdoc.NewParseOptions(
				kdoc.WithFilename(relPath),
				kdoc.WithSrcTree(srcTree),
				kdoc.WithMarkup(markup),
				kdoc.WithIDPrefix(c.String("id-prefix")),
				kdoc.WithGatherContext(true),
			)
		},
		RenderConfig: rst.Config{},
		Concurrency:  c.Int("jobs"),
	}

	log.Info().Str("srctree", srcTree).Str("doctree", docTree).Msg("starting autodoc walk")
	result, err := walk.Run(ctx, srcTree, docTree, cfg)
	if err != nil {
		return err
	}

	failed := result.Failed()
	for _, f := range failed {
		log.Error().Str("file", f.SrcPath).Err(f.Err).Msg("failed to render")
	}
	log.Info().Int("files", len(result.Files)).Int("failed", len(failed)).Msg("autodoc walk complete")

	if len(failed) > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d files failed to render", len(failed), len(result.Files)), 1)
	}
	return nil
}
