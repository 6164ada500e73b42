// Package dictimport defines the seam between a third-party dictionary
// bundle and the core builder: ImportBundle carries pre-parsed tags,
// terms, kanji, and frequency tables, and Ingest shows the call order a
// real archive-reading adapter must follow. It parses nothing itself —
// the JSON/ZIP bundle format (e.g. the Yomichan term-bank/kanji-bank/
// tag-bank triad) is out of scope; this package exists so that future
// adapters have a single, tested reference for the push order the
// builder requires.
package dictimport

import (
	"fmt"

	"github.com/kotoba-dict/kotoba/dictbuild"
)

// ImportBundle is everything one source dictionary contributes to a
// build: its tags, terms, and kanji in builder-ready form, plus any
// separate frequency side tables to merge in once every term and kanji
// entry has been pushed.
type ImportBundle struct {
	Tags      []dictbuild.TagData
	Terms     []dictbuild.TermData
	Kanji     []dictbuild.KanjiData
	MetaTerms []dictbuild.FreqEntry
	MetaKanji []dictbuild.FreqEntry
}

// Ingest pushes bundle into b in the order a real importer must use:
// tags first (so later terms/kanji can resolve tag names), then every
// term and kanji entry via the Import* convenience wrappers, and
// finally the term/kanji frequency side tables merged in by expression
// and character. It stops and returns the first error encountered,
// identifying which record caused it.
func Ingest(b *dictbuild.Builder, bundle ImportBundle) error {
	for i, tag := range bundle.Tags {
		if _, err := b.PushTag(tag); err != nil {
			return fmt.Errorf("dictimport: tag %d (%q): %w", i, tag.Name, err)
		}
	}

	for i, term := range bundle.Terms {
		if err := b.ImportTerm(term, nil); err != nil {
			return fmt.Errorf("dictimport: term %d (%q): %w", i, term.Expression, err)
		}
	}
	for i, kanji := range bundle.Kanji {
		if err := b.ImportKanji(kanji, nil); err != nil {
			return fmt.Errorf("dictimport: kanji %d (%q): %w", i, string(kanji.Character), err)
		}
	}

	if err := b.MergeTermFrequencies(bundle.MetaTerms); err != nil {
		return fmt.Errorf("dictimport: merging term frequencies: %w", err)
	}
	if err := b.MergeKanjiFrequencies(bundle.MetaKanji); err != nil {
		return fmt.Errorf("dictimport: merging kanji frequencies: %w", err)
	}

	return nil
}
