package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/kotoba-dict/kotoba/dictread"
	"github.com/kotoba-dict/kotoba/dictvalidate"
)

func newCmd_Check() *cli.Command {
	return &cli.Command{
		Name:        "check",
		Usage:       "Validate a dictionary blob and print summary counters.",
		Description: "Memory-maps the blob, runs the structural validator, and prints term/kanji/tag/index/arena counts.",
		ArgsUsage:   "<path>",
		Action: func(c *cli.Context) error {
			path := c.Args().Get(0)
			if path == "" {
				return cli.Exit(fmt.Errorf("check: a blob path is required"), 1)
			}

			startedAt := time.Now()
			defer func() {
				klog.Infof("check: finished in %s", time.Since(startedAt))
			}()

			db, err := dictread.LoadFile(path)
			if err != nil {
				return cli.Exit(fmt.Errorf("check: %w", err), 1)
			}

			fmt.Printf("tags:          %d\n", db.TagCount())
			fmt.Printf("terms:         %d\n", db.TermCount())
			fmt.Printf("kanji:         %d\n", db.KanjiCount())
			fmt.Printf("prefix index:  %d\n", db.IndexLen(dictread.PrefixIndex))
			fmt.Printf("suffix index:  %d\n", db.IndexLen(dictread.SuffixIndex))
			fmt.Printf("char index:    %d\n", db.CharIndexLen())
			fmt.Printf("vector data:   %d\n", db.VectorDataLen())
			fmt.Printf("string list:   %d\n", db.StringListLen())
			fmt.Printf("string data:   %d bytes\n", db.StringDataLen())

			if err := dictvalidate.Check(db); err != nil {
				return cli.Exit(fmt.Errorf("check: %w", err), 1)
			}
			klog.Info("check: blob is well-formed")
			return nil
		},
	}
}
