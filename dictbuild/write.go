package dictbuild

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"

	bin "github.com/gagliardetto/binary"
	"github.com/valyala/bytebufferpool"

	"github.com/kotoba-dict/kotoba/continuity"
	"github.com/kotoba-dict/kotoba/dictfmt"
	"github.com/kotoba-dict/kotoba/dicttext"
)

// indexRow is the build-time form of a prefix/suffix index row, kept
// separate from dictfmt.IndexRow until emit so that Write's resolution
// of each key to its current string value doesn't depend on the final
// on-disk encoding.
type indexRow struct {
	key  dictfmt.StrRef
	term uint32
}

// charRow is the build-time form of a character-index row: a code point
// and its (already sorted, deduplicated) term indices, packed into a
// dictfmt.CharRow's VecHandle only at emit time.
type charRow struct {
	character rune
	indices   []uint32
}

// Write runs the build pipeline and streams the resulting blob to w. It
// consumes the builder: once Write returns, every further call on b
// fails with ErrSealed, matching the single-use contract of
// compactindexsized.Builder.SealAndClose.
func (b *Builder) Write(w io.Writer) error {
	if b.sealed {
		return ErrSealed
	}
	b.sealed = true

	var prefixRows, suffixRows []indexRow
	var charRows []charRow
	vectors := dicttext.NewVectorArena()

	chain := continuity.New().
		Step("sort", func() error {
			b.sortTerms()
			b.sortKanji()
			return nil
		}).
		Step("prefix-index", func() error {
			prefixRows = b.buildPrefixRows()
			return nil
		}).
		Step("suffix-index", func() error {
			suffixRows = b.buildSuffixRows(prefixRows)
			return nil
		}).
		Step("char-index", func() error {
			charRows = b.buildCharIndex()
			return nil
		}).
		Step("emit", func() error {
			return b.emit(w, prefixRows, suffixRows, charRows, vectors)
		})

	return chain.Err()
}

// sortTerms orders terms by frequency descending, tiebreaking by score
// descending, preserving insertion order among exact ties.
func (b *Builder) sortTerms() {
	sort.SliceStable(b.terms, func(i, j int) bool {
		ti, tj := b.terms[i], b.terms[j]
		if ti.frequency != tj.frequency {
			return ti.frequency > tj.frequency
		}
		return ti.score > tj.score
	})
}

// sortKanji orders kanji by frequency descending, preserving insertion
// order among ties.
func (b *Builder) sortKanji() {
	sort.SliceStable(b.kanji, func(i, j int) bool {
		return b.kanji[i].frequency > b.kanji[j].frequency
	})
}

// buildPrefixRows emits one row per non-empty key among a term's
// expression, reading, and search_key, then sorts the rows by the UTF-8
// byte value of the dereferenced key.
func (b *Builder) buildPrefixRows() []indexRow {
	var rows []indexRow
	for i, t := range b.terms {
		rows = append(rows, indexRow{key: t.expression, term: uint32(i)})
		if t.reading != 0 {
			rows = append(rows, indexRow{key: t.reading, term: uint32(i)})
		}
		if t.searchKey != 0 {
			rows = append(rows, indexRow{key: t.searchKey, term: uint32(i)})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return b.strOf(rows[i].key) < b.strOf(rows[j].key)
	})
	return rows
}

// buildSuffixRows reverses every prefix row's key by grapheme cluster,
// interning each reversal at most once, then sorts by the reversed key.
func (b *Builder) buildSuffixRows(prefixRows []indexRow) []indexRow {
	reversalCache := make(map[dictfmt.StrRef]dictfmt.StrRef, len(prefixRows))
	rows := make([]indexRow, len(prefixRows))
	for i, r := range prefixRows {
		rev, ok := reversalCache[r.key]
		if !ok {
			rev = b.strings.Intern(dicttext.ReverseGraphemes(b.strOf(r.key)))
			reversalCache[r.key] = rev
		}
		rows[i] = indexRow{key: rev, term: r.term}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return b.strOf(rows[i].key) < b.strOf(rows[j].key)
	})
	return rows
}

// buildCharIndex unions the code points of every term's expression and
// reading into per-character buckets of term indices, each sorted and
// deduplicated, and returns the resulting rows sorted by character.
func (b *Builder) buildCharIndex() []charRow {
	buckets := make(map[rune]map[uint32]struct{})
	addChars := func(s string, term uint32) {
		for _, r := range s {
			set, ok := buckets[r]
			if !ok {
				set = make(map[uint32]struct{})
				buckets[r] = set
			}
			set[term] = struct{}{}
		}
	}
	for i, t := range b.terms {
		addChars(b.strOf(t.expression), uint32(i))
		addChars(b.strOf(t.reading), uint32(i))
	}

	chars := make([]rune, 0, len(buckets))
	for r := range buckets {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	rows := make([]charRow, 0, len(chars))
	for _, r := range chars {
		set := buckets[r]
		indices := make([]uint32, 0, len(set))
		for idx := range set {
			indices = append(indices, idx)
		}
		sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
		rows = append(rows, charRow{character: r, indices: indices})
	}
	return rows
}

func (b *Builder) strOf(ref dictfmt.StrRef) string {
	s, _ := b.strings.Lookup(ref)
	return s
}

// emit packs every variable-length list into the vector arena and writes
// the nine sections in their fixed order.
func (b *Builder) emit(w io.Writer, prefixRows, suffixRows []indexRow, charRows []charRow, vectors *dicttext.VectorArena) error {
	bw := bufio.NewWriter(w)

	tagRecords := make([]dictfmt.TagRecord, len(b.tags))
	for i, t := range b.tags {
		tagRecords[i] = dictfmt.TagRecord{Name: t.name, Category: t.category, Order: t.order, Notes: t.notes}
	}

	termRecords := make([]dictfmt.TermRecord, len(b.terms))
	for i, t := range b.terms {
		termRecords[i] = dictfmt.TermRecord{
			Expression:     t.expression,
			Reading:        t.reading,
			SearchKey:      t.searchKey,
			Score:          t.score,
			Sequence:       t.sequence,
			Frequency:      t.frequency,
			Source:         t.source,
			Glossary:       vectors.Push(refs2u32(t.glossary)),
			Rules:          vectors.Push(t.rules),
			TermTags:       vectors.Push(t.termTags),
			DefinitionTags: vectors.Push(t.definitionTags),
		}
	}

	kanjiRecords := make([]dictfmt.KanjiRecord, len(b.kanji))
	for i, k := range b.kanji {
		kanjiRecords[i] = dictfmt.KanjiRecord{
			Character: k.character,
			Frequency: k.frequency,
			Source:    k.source,
			Meanings:  vectors.Push(refs2u32(k.meanings)),
			Onyomi:    vectors.Push(refs2u32(k.onyomi)),
			Kunyomi:   vectors.Push(refs2u32(k.kunyomi)),
			Tags:      vectors.Push(k.tags),
			Stats:     vectors.Push(k.stats),
		}
	}

	prefixRecords := make([]dictfmt.IndexRow, len(prefixRows))
	for i, r := range prefixRows {
		prefixRecords[i] = dictfmt.IndexRow{Key: r.key, Term: r.term}
	}
	suffixRecords := make([]dictfmt.IndexRow, len(suffixRows))
	for i, r := range suffixRows {
		suffixRecords[i] = dictfmt.IndexRow{Key: r.key, Term: r.term}
	}

	// Character index buckets are packed last among the list-bearing
	// sections so that vector_data ends with a contiguous run per bucket.
	packedCharRows := make([]dictfmt.CharRow, len(charRows))
	for i, row := range charRows {
		packedCharRows[i] = dictfmt.CharRow{Character: row.character, Indexes: vectors.Push(row.indices)}
	}

	if err := writeSection(bw, len(tagRecords), marshalAll(tagRecords)); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	if err := writeSection(bw, len(termRecords), marshalAll(termRecords)); err != nil {
		return fmt.Errorf("terms: %w", err)
	}
	if err := writeSection(bw, len(kanjiRecords), marshalAll(kanjiRecords)); err != nil {
		return fmt.Errorf("kanji: %w", err)
	}
	if err := writeSection(bw, len(prefixRecords), marshalAll(prefixRecords)); err != nil {
		return fmt.Errorf("prefix index: %w", err)
	}
	if err := writeSection(bw, len(suffixRecords), marshalAll(suffixRecords)); err != nil {
		return fmt.Errorf("suffix index: %w", err)
	}
	if err := writeSection(bw, len(packedCharRows), marshalAll(packedCharRows)); err != nil {
		return fmt.Errorf("char index: %w", err)
	}
	if err := writeU32Section(bw, vectors.Data()); err != nil {
		return fmt.Errorf("vector data: %w", err)
	}
	if err := writeSection(bw, b.strings.Len(), marshalAll(b.strings.StringList())); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	if err := writeByteSection(bw, b.strings.StringData()); err != nil {
		return fmt.Errorf("string data: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: flushing blob: %w", dictfmt.ErrIO, err)
	}
	return nil
}

func refs2u32(refs []dictfmt.StrRef) []uint32 {
	out := make([]uint32, len(refs))
	for i, r := range refs {
		out[i] = uint32(r)
	}
	return out
}

type marshaler interface{ MarshalBinary() ([]byte, error) }

// marshalAll encodes records into a single contiguous byte slice using a
// pooled scratch buffer, the same bytebufferpool.Get/Put pattern the
// teacher's compactindexsized/query.go uses around its own entriesBuf,
// so that a section's encoded records are concatenated in one pooled
// buffer rather than a freshly grown one per section. Each record's own
// MarshalBinary call still allocates its encoding.
func marshalAll[T marshaler](records []T) func() ([]byte, error) {
	return func() ([]byte, error) {
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)
		for _, r := range records {
			b, err := r.MarshalBinary()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		out := make([]byte, buf.Len())
		copy(out, buf.Bytes())
		return out, nil
	}
}

func writeSection(w *bufio.Writer, count int, encode func() ([]byte, error)) error {
	if err := writeCount(w, count); err != nil {
		return err
	}
	body, err := encode()
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("%w: %w", dictfmt.ErrIO, err)
	}
	return nil
}

func writeU32Section(w *bufio.Writer, elems []uint32) error {
	if err := writeCount(w, len(elems)); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	for _, v := range elems {
		if err := enc.WriteUint32(v, bin.LE); err != nil {
			return err
		}
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", dictfmt.ErrIO, err)
	}
	return nil
}

func writeByteSection(w *bufio.Writer, data []byte) error {
	if err := writeCount(w, len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", dictfmt.ErrIO, err)
	}
	return nil
}

func writeCount(w *bufio.Writer, n int) error {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteUint32(uint32(n), bin.LE); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", dictfmt.ErrIO, err)
	}
	return nil
}
