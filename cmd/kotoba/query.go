package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kotoba-dict/kotoba/dictread"
	"github.com/kotoba-dict/kotoba/dictsearch"
)

// newCmd_Query is a non-interactive smoke-test stand-in for an
// interactive dictionary lookup REPL, which is out of scope. It loads a
// blob once, runs a single search, and prints the matched expressions.
func newCmd_Query() *cli.Command {
	return &cli.Command{
		Name:        "query",
		Usage:       "Run a single search against a dictionary blob.",
		Description: "Loads the blob and runs one of term/prefix/suffix/chars against it, printing matched term expressions.",
		ArgsUsage:   "<path> <term|prefix|suffix|chars> <key>",
		Action: func(c *cli.Context) error {
			path := c.Args().Get(0)
			mode := c.Args().Get(1)
			key := c.Args().Get(2)
			if path == "" || mode == "" || key == "" {
				return cli.Exit(fmt.Errorf("query: usage: kotoba query <path> <term|prefix|suffix|chars> <key>"), 1)
			}

			db, err := dictread.LoadFile(path)
			if err != nil {
				return cli.Exit(fmt.Errorf("query: %w", err), 1)
			}

			out := dictsearch.NewResultSet()
			switch mode {
			case "term":
				_, err = dictsearch.SearchTerm(db, key, out)
			case "prefix":
				_, err = dictsearch.SearchPrefix(db, key, out)
			case "suffix":
				_, err = dictsearch.SearchSuffix(db, key, out)
			case "chars":
				_, err = dictsearch.SearchChars(db, key, out)
			default:
				return cli.Exit(fmt.Errorf("query: unknown mode %q", mode), 1)
			}
			if err != nil {
				return cli.Exit(fmt.Errorf("query: %w", err), 1)
			}

			for _, idx := range out.Indexes() {
				term, err := db.Term(idx)
				if err != nil {
					return cli.Exit(fmt.Errorf("query: %w", err), 1)
				}
				fmt.Println(term.Expression())
			}
			return nil
		},
	}
}
