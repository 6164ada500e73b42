package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/kotoba-dict/kotoba/dictbuild"
	"github.com/kotoba-dict/kotoba/dictimport"
)

// bundleFile is the on-disk shape this stub build command understands: a
// single bundle.json per source directory holding already-shaped
// dictimport.ImportBundle data. It exists so `kotoba build` has something
// concrete to drive dictimport.Ingest with; a real Yomichan-archive
// adapter is out of scope, matching dictimport's own documented
// boundary.
type bundleFile struct {
	Tags      []dictbuild.TagData   `json:"tags"`
	Terms     []dictbuild.TermData  `json:"terms"`
	Kanji     []dictbuild.KanjiData `json:"kanji"`
	MetaTerms []dictbuild.FreqEntry `json:"meta_terms"`
	MetaKanji []dictbuild.FreqEntry `json:"meta_kanji"`
}

func newCmd_Build() *cli.Command {
	var out string
	return &cli.Command{
		Name:        "build",
		Usage:       "Build a dictionary blob from one or more bundle directories.",
		Description: "Reads a bundle.json from each given directory (when present), merges them, and writes a single dictionary blob.",
		ArgsUsage:   "<bundle-dir...>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Usage:       "path to write the resulting blob to",
				Required:    true,
				Destination: &out,
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return cli.Exit(fmt.Errorf("build: at least one bundle directory is required"), 1)
			}

			startedAt := time.Now()
			defer func() {
				klog.Infof("build: finished in %s", time.Since(startedAt))
			}()

			var merged dictimport.ImportBundle
			for i := 0; i < c.Args().Len(); i++ {
				dir := c.Args().Get(i)
				bundlePath := filepath.Join(dir, "bundle.json")
				data, err := os.ReadFile(bundlePath)
				if os.IsNotExist(err) {
					klog.Warningf("build: no bundle.json in %s, skipping", dir)
					continue
				}
				if err != nil {
					return cli.Exit(fmt.Errorf("build: reading %s: %w", bundlePath, err), 1)
				}
				var bf bundleFile
				if err := json.Unmarshal(data, &bf); err != nil {
					return cli.Exit(fmt.Errorf("build: parsing %s: %w", bundlePath, err), 1)
				}
				klog.Infof("build: loaded %d tags, %d terms, %d kanji from %s", len(bf.Tags), len(bf.Terms), len(bf.Kanji), bundlePath)
				merged.Tags = append(merged.Tags, bf.Tags...)
				merged.Terms = append(merged.Terms, bf.Terms...)
				merged.Kanji = append(merged.Kanji, bf.Kanji...)
				merged.MetaTerms = append(merged.MetaTerms, bf.MetaTerms...)
				merged.MetaKanji = append(merged.MetaKanji, bf.MetaKanji...)
			}

			b := dictbuild.New()
			if err := dictimport.Ingest(b, merged); err != nil {
				return cli.Exit(fmt.Errorf("build: %w", err), 1)
			}

			f, err := os.Create(out)
			if err != nil {
				return cli.Exit(fmt.Errorf("build: creating %s: %w", out, err), 1)
			}
			defer f.Close()

			if err := b.Write(f); err != nil {
				return cli.Exit(fmt.Errorf("build: writing %s: %w", out, err), 1)
			}

			klog.Infof("build: wrote %s (%d tags, %d terms, %d kanji)", out, len(merged.Tags), len(merged.Terms), len(merged.Kanji))
			return nil
		},
	}
}
