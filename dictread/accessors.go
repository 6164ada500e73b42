package dictread

import (
	"fmt"

	"github.com/kotoba-dict/kotoba/dictfmt"
)

// GetStr dereferences a string reference through string_list into
// string_data. Ref zero always resolves to the empty string.
func (db *DB) GetStr(ref dictfmt.StrRef) (string, error) {
	h, err := db.stringList.At(int(ref))
	if err != nil {
		return "", fmt.Errorf("dictread: string ref %d: %w", ref, err)
	}
	sta, end := h.Range()
	if sta < 0 || end > len(db.stringData) || sta > end {
		return "", fmt.Errorf("dictread: string ref %d: range [%d,%d) out of bounds (%d bytes)", ref, sta, end, len(db.stringData))
	}
	return string(db.stringData[sta:end]), nil
}

// getVec resolves a VecHandle into the backing uint32 slice.
func (db *DB) getVec(h dictfmt.VecHandle) ([]uint32, error) {
	sta, end := h.Range()
	if sta < 0 || end > len(db.vectorData) || sta > end {
		return nil, fmt.Errorf("dictread: vector range [%d,%d) out of bounds (%d elements)", sta, end, len(db.vectorData))
	}
	return db.vectorData[sta:end], nil
}

// GetStrList resolves a VecHandle whose elements are string refs.
func (db *DB) GetStrList(h dictfmt.VecHandle) ([]string, error) {
	elems, err := db.getVec(h)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		s, err := db.GetStr(dictfmt.StrRef(e))
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// GetTag resolves a tag index into a TagView.
func (db *DB) GetTag(index uint32) (TagView, error) {
	rec, err := db.tags.At(int(index))
	if err != nil {
		return TagView{}, fmt.Errorf("dictread: tag %d: %w", index, err)
	}
	return TagView{db: db, rec: rec}, nil
}

// GetTags resolves a VecHandle whose elements are tag indices.
func (db *DB) GetTags(h dictfmt.VecHandle) ([]TagView, error) {
	elems, err := db.getVec(h)
	if err != nil {
		return nil, err
	}
	out := make([]TagView, len(elems))
	for i, e := range elems {
		tv, err := db.GetTag(e)
		if err != nil {
			return nil, err
		}
		out[i] = tv
	}
	return out, nil
}

// TagCount, TermCount, and KanjiCount report the number of records in
// their respective sections.
func (db *DB) TagCount() int   { return db.tags.Len() }
func (db *DB) TermCount() int  { return db.terms.Len() }
func (db *DB) KanjiCount() int { return db.kanji.Len() }

// Tag returns the tag at index.
func (db *DB) Tag(index uint32) (TagView, error) { return db.GetTag(index) }

// Term returns the term at index.
func (db *DB) Term(index uint32) (TermView, error) {
	rec, err := db.terms.At(int(index))
	if err != nil {
		return TermView{}, fmt.Errorf("dictread: term %d: %w", index, err)
	}
	return TermView{db: db, pos: index, rec: rec}, nil
}

// Kanji returns the kanji entry at index.
func (db *DB) Kanji(index uint32) (KanjiView, error) {
	rec, err := db.kanji.At(int(index))
	if err != nil {
		return KanjiView{}, fmt.Errorf("dictread: kanji %d: %w", index, err)
	}
	return KanjiView{db: db, rec: rec}, nil
}

// TagView is a lazily-dereferencing accessor over a tag record.
type TagView struct {
	db  *DB
	rec dictfmt.TagRecord
}

func (t TagView) Name() string {
	s, _ := t.db.GetStr(t.rec.Name)
	return s
}

func (t TagView) Category() string {
	s, _ := t.db.GetStr(t.rec.Category)
	return s
}

// Order ranks a tag for display purposes; it carries no other meaning.
func (t TagView) Order() int32 { return t.rec.Order }

func (t TagView) Notes() string {
	s, _ := t.db.GetStr(t.rec.Notes)
	return s
}

func (t TagView) String() string {
	s := t.Name()
	if c := t.Category(); c != "" {
		s += " [" + c + "]"
	}
	if n := t.Notes(); n != "" {
		s += " -- " + n
	}
	return s
}

// TermView is a lazily-dereferencing accessor over a term record. Pos is
// the term's position within the sorted terms section, the same index
// SearchTerm/SearchPrefix/SearchSuffix/SearchChars report as a match.
type TermView struct {
	db  *DB
	pos uint32
	rec dictfmt.TermRecord
}

func (t TermView) Pos() uint32 { return t.pos }

func (t TermView) Expression() string {
	s, _ := t.db.GetStr(t.rec.Expression)
	return s
}

func (t TermView) Reading() string {
	s, _ := t.db.GetStr(t.rec.Reading)
	return s
}

func (t TermView) SearchKey() string {
	s, _ := t.db.GetStr(t.rec.SearchKey)
	return s
}

func (t TermView) Score() int32 { return t.rec.Score }

func (t TermView) Sequence() uint32 { return t.rec.Sequence }

// Frequency reports the term's corpus frequency, or false if it was
// never recorded: a zero Frequency field means "unknown", matching the
// original format's convention for this field.
func (t TermView) Frequency() (uint32, bool) {
	return t.rec.Frequency, t.rec.Frequency > 0
}

func (t TermView) Source() string {
	s, _ := t.db.GetStr(t.rec.Source)
	return s
}

func (t TermView) Glossary() []string {
	out, _ := t.db.GetStrList(t.rec.Glossary)
	return out
}

func (t TermView) Rules() []TagView {
	out, _ := t.db.GetTags(t.rec.Rules)
	return out
}

func (t TermView) TermTags() []TagView {
	out, _ := t.db.GetTags(t.rec.TermTags)
	return out
}

func (t TermView) DefinitionTags() []TagView {
	out, _ := t.db.GetTags(t.rec.DefinitionTags)
	return out
}

// KanjiView is a lazily-dereferencing accessor over a kanji record. It
// has no direct counterpart in the original implementation's data
// module, which never defined a public kanji view; this one follows the
// same field-by-field dereferencing pattern as TagView and TermView.
type KanjiView struct {
	db  *DB
	rec dictfmt.KanjiRecord
}

// Character is the kanji's Unicode code point.
func (k KanjiView) Character() rune { return k.rec.Character }

func (k KanjiView) Frequency() (uint32, bool) {
	return k.rec.Frequency, k.rec.Frequency > 0
}

func (k KanjiView) Source() string {
	s, _ := k.db.GetStr(k.rec.Source)
	return s
}

func (k KanjiView) Meanings() []string {
	out, _ := k.db.GetStrList(k.rec.Meanings)
	return out
}

func (k KanjiView) Onyomi() []string {
	out, _ := k.db.GetStrList(k.rec.Onyomi)
	return out
}

func (k KanjiView) Kunyomi() []string {
	out, _ := k.db.GetStrList(k.rec.Kunyomi)
	return out
}

func (k KanjiView) Tags() []TagView {
	out, _ := k.db.GetTags(k.rec.Tags)
	return out
}

// Stats returns the kanji's (tag, value) attribute pairs, e.g. grade or
// JLPT level, keyed by tag name.
func (k KanjiView) Stats() (map[string]string, error) {
	elems, err := k.db.getVec(k.rec.Stats)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(elems)/2)
	for i := 0; i+1 < len(elems); i += 2 {
		tag, err := k.db.GetTag(elems[i])
		if err != nil {
			return nil, err
		}
		val, err := k.db.GetStr(dictfmt.StrRef(elems[i+1]))
		if err != nil {
			return nil, err
		}
		out[tag.Name()] = val
	}
	return out, nil
}
