// Package command wires the kerneldoc CLI surface: rest, autodoc, lintdoc
// and grepdoc. One file per subcommand, a shared App() entrypoint, an
// isatty color gate.
package command

import (
	"os"

	isatty "github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	cli "github.com/urfave/cli/v2"
)

// App builds the kerneldoc cli.App.
func App() *cli.App {
	app := cli.NewApp()
	app.Name = "kerneldoc"
	app.Usage = "translates kernel-doc comments into reStructuredText"
	app.Description = "extracts and renders structured documentation comments from C/C++ source"
	app.Commands = []*cli.Command{
		restCommand,
		autodocCommand,
		lintdocCommand,
		grepdocCommand,
	}
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "suppress operational logging",
		},
	}
	app.Before = func(c *cli.Context) error {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if c.Bool("quiet") {
			zerolog.SetGlobalLevel(zerolog.Disabled)
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !useColor()})
		return nil
	}
	return app
}

// useColor reports whether stderr is a terminal, gating both the zerolog
// console writer and the diagnostic.Color context value.
func useColor() bool {
	return isatty.IsTerminal(os.Stderr.Fd())
}
