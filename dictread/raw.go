package dictread

import "github.com/kotoba-dict/kotoba/dictfmt"

// The methods in this file expose raw, undereferenced records and
// ranges. They exist for dictvalidate, which must inspect every handle
// for bounds violations before any of the lazy accessors in
// accessors.go can be trusted to dereference them safely.

// TagRecord returns the raw tag record at index i.
func (db *DB) TagRecord(i int) (dictfmt.TagRecord, error) { return db.tags.At(i) }

// TermRecord returns the raw term record at index i.
func (db *DB) TermRecord(i int) (dictfmt.TermRecord, error) { return db.terms.At(i) }

// KanjiRecord returns the raw kanji record at index i.
func (db *DB) KanjiRecord(i int) (dictfmt.KanjiRecord, error) { return db.kanji.At(i) }

// IndexRowRaw returns the raw (key ref, term index) pair for row i of
// the named index, without dereferencing the key.
func (db *DB) IndexRowRaw(kind IndexKind, i int) (dictfmt.StrRef, uint32, error) {
	row, err := db.index(kind).At(i)
	if err != nil {
		return 0, 0, err
	}
	return row.Key, row.Term, nil
}

// StringListLen reports the number of entries in string_list.
func (db *DB) StringListLen() int { return db.stringList.Len() }

// StringDataLen reports the byte length of string_data.
func (db *DB) StringDataLen() int { return len(db.stringData) }

// StringHandleRange returns the [start, end) byte range named by
// string_list entry i, without checking it against string_data.
func (db *DB) StringHandleRange(i int) (int, int, error) {
	h, err := db.stringList.At(i)
	if err != nil {
		return 0, 0, err
	}
	sta, end := h.Range()
	return sta, end, nil
}

// StringDataRange returns the raw bytes of string_data in [sta, end),
// clamping to nil if the range is out of bounds rather than panicking,
// so callers validating untrusted handles can report a structural
// error instead of crashing.
func (db *DB) StringDataRange(sta, end int) []byte {
	if sta < 0 || end > len(db.stringData) || sta > end {
		return nil
	}
	return db.stringData[sta:end]
}

// VectorDataLen reports the number of elements in vector_data.
func (db *DB) VectorDataLen() int { return len(db.vectorData) }

// VectorDataRange returns the raw elements of vector_data in [sta, end),
// clamping to an empty slice if the range is out of bounds rather than
// panicking, so callers validating untrusted handles can report a
// structural error instead of crashing.
func (db *DB) VectorDataRange(sta, end int) []uint32 {
	if sta < 0 || end > len(db.vectorData) || sta > end {
		return nil
	}
	return db.vectorData[sta:end]
}
