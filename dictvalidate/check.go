// Package dictvalidate verifies that a loaded dictionary satisfies every
// structural invariant of the binary format: every string and vector
// handle resolves in bounds, every tag reference names a registered
// tag, and the prefix/suffix indexes are correctly ordered. It is
// opt-in, development-and-untrusted-input tooling: dictread.Load never
// runs it itself.
package dictvalidate

import (
	"fmt"
	"unicode/utf8"

	"github.com/kotoba-dict/kotoba/dictread"
)

// MalformedBlobError describes the first invariant violation Check
// finds, naming the section, row, and field it occurred in.
type MalformedBlobError struct {
	Section string
	Row     int
	Field   string
	Reason  string
}

func (e *MalformedBlobError) Error() string {
	return fmt.Sprintf("dictvalidate: malformed blob: %s[%d].%s: %s", e.Section, e.Row, e.Field, e.Reason)
}

func fail(section string, row int, field, reason string) error {
	return &MalformedBlobError{Section: section, Row: row, Field: field, Reason: reason}
}

// Check walks every record in db and verifies the invariants the binary
// format defines, stopping at and returning the first violation found.
// It is the Go counterpart of the original implementation's DB::check.
func Check(db *dictread.DB) error {
	stringCount := db.StringListLen()
	tagCount := db.TagCount()
	termCount := db.TermCount()
	vectorLen := db.VectorDataLen()

	if stringCount > 0 {
		empty, err := db.GetStr(0)
		if err != nil {
			return fail("string_list", 0, "*", err.Error())
		}
		if empty != "" {
			return fail("string_list", 0, "handle", fmt.Sprintf("handle 0 must name the empty string, got %q", empty))
		}
	}

	checkStr := func(section string, row int, field string, ref uint32) error {
		if int(ref) >= stringCount {
			return fail(section, row, field, fmt.Sprintf("string ref %d out of bounds (%d strings)", ref, stringCount))
		}
		return nil
	}

	checkVectorBounds := func(section string, row int, field string, sta, end int) error {
		if sta > end {
			return fail(section, row, field, fmt.Sprintf("vector range [%d,%d) inverted", sta, end))
		}
		if end > vectorLen {
			return fail(section, row, field, fmt.Sprintf("vector range [%d,%d) out of bounds (%d elements)", sta, end, vectorLen))
		}
		return nil
	}

	checkVectorTags := func(section string, row int, field string, sta, end int) error {
		if err := checkVectorBounds(section, row, field, sta, end); err != nil {
			return err
		}
		for _, idx := range db.VectorDataRange(sta, end) {
			if int(idx) >= tagCount {
				return fail(section, row, field, fmt.Sprintf("tag index %d out of bounds (%d tags)", idx, tagCount))
			}
		}
		return nil
	}

	checkVectorStrings := func(section string, row int, field string, sta, end int) error {
		if err := checkVectorBounds(section, row, field, sta, end); err != nil {
			return err
		}
		for _, idx := range db.VectorDataRange(sta, end) {
			if err := checkStr(section, row, field, idx); err != nil {
				return err
			}
		}
		return nil
	}

	for i := 0; i < db.TagCount(); i++ {
		rec, err := db.TagRecord(i)
		if err != nil {
			return fail("tags", i, "*", err.Error())
		}
		if err := checkStr("tags", i, "name", uint32(rec.Name)); err != nil {
			return err
		}
		if err := checkStr("tags", i, "category", uint32(rec.Category)); err != nil {
			return err
		}
		if err := checkStr("tags", i, "notes", uint32(rec.Notes)); err != nil {
			return err
		}
	}

	var prevFreq uint32
	var prevScore int32
	for i := 0; i < db.TermCount(); i++ {
		rec, err := db.TermRecord(i)
		if err != nil {
			return fail("terms", i, "*", err.Error())
		}
		if i > 0 {
			if rec.Frequency > prevFreq || (rec.Frequency == prevFreq && rec.Score > prevScore) {
				return fail("terms", i, "frequency", fmt.Sprintf("not sorted by (frequency desc, score desc): (%d,%d) follows (%d,%d)", rec.Frequency, rec.Score, prevFreq, prevScore))
			}
		}
		prevFreq, prevScore = rec.Frequency, rec.Score
		if err := checkStr("terms", i, "expression", uint32(rec.Expression)); err != nil {
			return err
		}
		if err := checkStr("terms", i, "reading", uint32(rec.Reading)); err != nil {
			return err
		}
		if err := checkStr("terms", i, "search_key", uint32(rec.SearchKey)); err != nil {
			return err
		}
		if err := checkStr("terms", i, "source", uint32(rec.Source)); err != nil {
			return err
		}
		gs, ge := rec.Glossary.Range()
		if err := checkVectorStrings("terms", i, "glossary", gs, ge); err != nil {
			return err
		}
		rs, re := rec.Rules.Range()
		if err := checkVectorTags("terms", i, "rules", rs, re); err != nil {
			return err
		}
		ts, te := rec.TermTags.Range()
		if err := checkVectorTags("terms", i, "term_tags", ts, te); err != nil {
			return err
		}
		ds, de := rec.DefinitionTags.Range()
		if err := checkVectorTags("terms", i, "definition_tags", ds, de); err != nil {
			return err
		}
	}

	var prevKanjiFreq uint32
	for i := 0; i < db.KanjiCount(); i++ {
		rec, err := db.KanjiRecord(i)
		if err != nil {
			return fail("kanji", i, "*", err.Error())
		}
		if i > 0 && rec.Frequency > prevKanjiFreq {
			return fail("kanji", i, "frequency", fmt.Sprintf("not sorted by frequency desc: %d follows %d", rec.Frequency, prevKanjiFreq))
		}
		prevKanjiFreq = rec.Frequency
		if err := checkStr("kanji", i, "source", uint32(rec.Source)); err != nil {
			return err
		}
		ms, me := rec.Meanings.Range()
		if err := checkVectorStrings("kanji", i, "meanings", ms, me); err != nil {
			return err
		}
		os, oe := rec.Onyomi.Range()
		if err := checkVectorStrings("kanji", i, "onyomi", os, oe); err != nil {
			return err
		}
		ks, ke := rec.Kunyomi.Range()
		if err := checkVectorStrings("kanji", i, "kunyomi", ks, ke); err != nil {
			return err
		}
		tgs, tge := rec.Tags.Range()
		if err := checkVectorTags("kanji", i, "tags", tgs, tge); err != nil {
			return err
		}
		ss, se := rec.Stats.Range()
		if err := checkVectorBounds("kanji", i, "stats", ss, se); err != nil {
			return err
		}
		stats := db.VectorDataRange(ss, se)
		if len(stats)%2 != 0 {
			return fail("kanji", i, "stats", "odd number of elements: expected (tag, value) pairs")
		}
		for j := 0; j+1 < len(stats); j += 2 {
			if int(stats[j]) >= tagCount {
				return fail("kanji", i, "stats", fmt.Sprintf("stat tag index %d out of bounds (%d tags)", stats[j], tagCount))
			}
			if err := checkStr("kanji", i, "stats", stats[j+1]); err != nil {
				return err
			}
		}
	}

	if err := checkIndex(db, dictread.PrefixIndex, "prefix_index", stringCount, termCount); err != nil {
		return err
	}
	if err := checkIndex(db, dictread.SuffixIndex, "suffix_index", stringCount, termCount); err != nil {
		return err
	}
	if err := checkIndexCompleteness(db, dictread.PrefixIndex, "prefix_index"); err != nil {
		return err
	}
	if err := checkIndexCompleteness(db, dictread.SuffixIndex, "suffix_index"); err != nil {
		return err
	}

	var prevChar rune
	for i := 0; i < db.CharIndexLen(); i++ {
		char, terms, err := db.CharIndexRow(i)
		if err != nil {
			return fail("char_index", i, "*", err.Error())
		}
		if i > 0 && char <= prevChar {
			return fail("char_index", i, "character", fmt.Sprintf("not strictly ascending: %q follows %q", char, prevChar))
		}
		prevChar = char
		var prevIdx uint32
		for j, idx := range terms {
			if int(idx) >= termCount {
				return fail("char_index", i, "indexes", fmt.Sprintf("term index %d out of bounds (%d terms)", idx, termCount))
			}
			if j > 0 && idx <= prevIdx {
				return fail("char_index", i, "indexes", fmt.Sprintf("not strictly ascending/deduplicated: %d follows %d", idx, prevIdx))
			}
			prevIdx = idx
		}
	}

	if err := checkStringList(db); err != nil {
		return err
	}
	if err := checkMonotonic(db, dictread.PrefixIndex, "prefix_index"); err != nil {
		return err
	}
	if err := checkMonotonic(db, dictread.SuffixIndex, "suffix_index"); err != nil {
		return err
	}

	return nil
}

func checkIndex(db *dictread.DB, kind dictread.IndexKind, section string, stringCount, termCount int) error {
	n := db.IndexLen(kind)
	for i := 0; i < n; i++ {
		key, term, err := db.IndexRowRaw(kind, i)
		if err != nil {
			return fail(section, i, "*", err.Error())
		}
		if int(key) >= stringCount {
			return fail(section, i, "key", fmt.Sprintf("string ref %d out of bounds (%d strings)", key, stringCount))
		}
		if int(term) >= termCount {
			return fail(section, i, "term", fmt.Sprintf("term index %d out of bounds (%d terms)", term, termCount))
		}
	}
	return nil
}

// checkIndexCompleteness verifies that every term contributes exactly one
// row per non-empty key among {expression, reading, search_key} to the
// named index, neither more (a duplicate) nor fewer (a dropped key).
func checkIndexCompleteness(db *dictread.DB, kind dictread.IndexKind, section string) error {
	termCount := db.TermCount()
	counts := make([]int, termCount)
	n := db.IndexLen(kind)
	for i := 0; i < n; i++ {
		term, err := db.IndexRowTerm(kind, i)
		if err != nil {
			return fail(section, i, "*", err.Error())
		}
		if int(term) < termCount {
			counts[term]++
		}
	}
	for i := 0; i < termCount; i++ {
		rec, err := db.TermRecord(i)
		if err != nil {
			return fail("terms", i, "*", err.Error())
		}
		expected := 0
		if rec.Expression != 0 {
			expected++
		}
		if rec.Reading != 0 {
			expected++
		}
		if rec.SearchKey != 0 {
			expected++
		}
		if counts[i] != expected {
			return fail(section, i, "term", fmt.Sprintf("expected %d rows for term %d, found %d", expected, i, counts[i]))
		}
	}
	return nil
}

func checkStringList(db *dictread.DB) error {
	dataLen := db.StringDataLen()
	for i := 0; i < db.StringListLen(); i++ {
		sta, end, err := db.StringHandleRange(i)
		if err != nil {
			return fail("string_list", i, "*", err.Error())
		}
		if sta > end || end > dataLen {
			return fail("string_list", i, "range", fmt.Sprintf("[%d,%d) out of bounds (%d bytes)", sta, end, dataLen))
		}
		if !utf8.Valid(db.StringDataRange(sta, end)) {
			return fail("string_list", i, "range", fmt.Sprintf("[%d,%d) is not valid UTF-8", sta, end))
		}
	}
	return nil
}

func checkMonotonic(db *dictread.DB, kind dictread.IndexKind, section string) error {
	n := db.IndexLen(kind)
	for i := 1; i < n; i++ {
		prev, err := db.IndexRowKey(kind, i-1)
		if err != nil {
			return fail(section, i, "key", err.Error())
		}
		cur, err := db.IndexRowKey(kind, i)
		if err != nil {
			return fail(section, i, "key", err.Error())
		}
		if prev > cur {
			return fail(section, i, "key", fmt.Sprintf("not monotonic: %q follows %q", cur, prev))
		}
	}
	return nil
}
