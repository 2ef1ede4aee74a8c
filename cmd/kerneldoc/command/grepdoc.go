package command

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	cli "github.com/urfave/cli/v2"
)

var reKernelDocDirective = regexp.MustCompile(`^\s*\.\.\s+kernel-doc::\s*(\S+)`)

var grepdocCommand = &cli.Command{
	Name:      "grepdoc",
	Usage:     "scan a reST tree for kernel-doc directives and print the source paths they reference",
	ArgsUsage: "<dir>",
	Action:    grepdocAction,
}

func grepdocAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("grepdoc requires exactly one directory argument", 1)
	}

	seen := make(map[string]struct{})
	err := filepath.WalkDir(c.Args().Get(0), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".rst" {
			return nil
		}
		return grepFile(path, seen)
	})
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintln(c.App.Writer, p)
	}
	return nil
}

func grepFile(path string, seen map[string]struct{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := reKernelDocDirective.FindStringSubmatch(scanner.Text())
		if m != nil {
			seen[m[1]] = struct{}{}
		}
	}
	return scanner.Err()
}
