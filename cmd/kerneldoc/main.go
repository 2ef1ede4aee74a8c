package main

import (
	"fmt"
	"os"

	"github.com/return42/linuxdoc/cmd/kerneldoc/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "kerneldoc: %s\n", err)
		os.Exit(1)
	}
}
