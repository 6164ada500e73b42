package dictread

import "github.com/kotoba-dict/kotoba/dictfmt"

// IndexKind names one of the two sorted key/term index sections, letting
// dictsearch run the same binary-search algorithm against either one.
type IndexKind int

const (
	PrefixIndex IndexKind = iota
	SuffixIndex
)

func (db *DB) index(kind IndexKind) dictfmt.Span[dictfmt.IndexRow] {
	if kind == SuffixIndex {
		return db.suffixIdx
	}
	return db.prefixIdx
}

// IndexLen reports the number of rows in the named index.
func (db *DB) IndexLen(kind IndexKind) int {
	return db.index(kind).Len()
}

// IndexRowKey dereferences the sort key of row i in the named index.
func (db *DB) IndexRowKey(kind IndexKind, i int) (string, error) {
	row, err := db.index(kind).At(i)
	if err != nil {
		return "", err
	}
	return db.GetStr(row.Key)
}

// IndexRowTerm returns the term index named by row i in the named index.
func (db *DB) IndexRowTerm(kind IndexKind, i int) (uint32, error) {
	row, err := db.index(kind).At(i)
	if err != nil {
		return 0, err
	}
	return row.Term, nil
}

// CharIndexLen reports the number of rows in the character index.
func (db *DB) CharIndexLen() int { return db.charIdx.Len() }

// CharIndexRow returns the character and sorted term-index list at row i.
func (db *DB) CharIndexRow(i int) (rune, []uint32, error) {
	row, err := db.charIdx.At(i)
	if err != nil {
		return 0, nil, err
	}
	terms, err := db.getVec(row.Indexes)
	if err != nil {
		return 0, nil, err
	}
	return row.Character, terms, nil
}
