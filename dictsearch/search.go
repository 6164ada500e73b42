package dictsearch

import (
	"sort"
	"strings"

	"github.com/kotoba-dict/kotoba/dictread"
	"github.com/kotoba-dict/kotoba/dicttext"
)

// SearchTerm looks up key as an exact match against the prefix index and
// inserts every matching term's index into out. Returns the number of
// newly inserted indices.
func SearchTerm(db *dictread.DB, key string, out *ResultSet) (int, error) {
	return doSearchIndex(db, dictread.PrefixIndex, key, true, out)
}

// SearchPrefix looks up key as a prefix against the prefix index and
// inserts every matching term's index into out.
func SearchPrefix(db *dictread.DB, key string, out *ResultSet) (int, error) {
	return doSearchIndex(db, dictread.PrefixIndex, key, false, out)
}

// SearchSuffix looks up the grapheme-reversal of key as a prefix against
// the suffix index, which is exactly equivalent to matching terms whose
// expression, reading, or search key ends in key.
func SearchSuffix(db *dictread.DB, key string, out *ResultSet) (int, error) {
	return doSearchIndex(db, dictread.SuffixIndex, dicttext.ReverseGraphemes(key), false, out)
}

func doSearchIndex(db *dictread.DB, kind dictread.IndexKind, keyword string, fullMatch bool, out *ResultSet) (int, error) {
	sta, end, found, err := searchIndexRange(db, kind, keyword, fullMatch)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	before := out.Len()
	for i := sta; i <= end; i++ {
		term, err := db.IndexRowTerm(kind, i)
		if err != nil {
			return 0, err
		}
		out.Insert(term)
	}
	return out.Len() - before, nil
}

// searchIndexRange binary-searches the named index for keyword, then
// expands the match both directions while the predicate (starts-with in
// prefix mode, exact equality in full-match mode) still holds, yielding
// an inclusive [sta, end] range of matching rows.
func searchIndexRange(db *dictread.DB, kind dictread.IndexKind, keyword string, fullMatch bool) (sta, end int, found bool, err error) {
	if keyword == "" {
		return 0, 0, false, nil
	}
	n := db.IndexLen(kind)
	if n == 0 {
		return 0, 0, false, nil
	}

	matches := func(rowKey string) bool {
		if fullMatch {
			return rowKey == keyword
		}
		return strings.HasPrefix(rowKey, keyword)
	}

	// Rows whose key satisfies the predicate form a contiguous band in
	// sorted order, since any such key is lexicographically >= keyword.
	// The first row with key >= keyword is therefore the first candidate.
	var searchErr error
	pos := sort.Search(n, func(i int) bool {
		k, e := db.IndexRowKey(kind, i)
		if e != nil {
			searchErr = e
			return true
		}
		return k >= keyword
	})
	if searchErr != nil {
		return 0, 0, false, searchErr
	}
	if pos >= n {
		return 0, 0, false, nil
	}

	key, err := db.IndexRowKey(kind, pos)
	if err != nil {
		return 0, 0, false, err
	}
	if !matches(key) {
		return 0, 0, false, nil
	}

	sta, end = pos, pos
	for sta > 0 {
		k, err := db.IndexRowKey(kind, sta-1)
		if err != nil {
			return 0, 0, false, err
		}
		if !matches(k) {
			break
		}
		sta--
	}
	for end < n-1 {
		k, err := db.IndexRowKey(kind, end+1)
		if err != nil {
			return 0, 0, false, err
		}
		if !matches(k) {
			break
		}
		end++
	}
	return sta, end, true, nil
}

// SearchChars finds every term whose expression or reading contains all
// of the distinct code points in key, by intersecting the character
// index's per-codepoint term buckets, and inserts the matches into out.
func SearchChars(db *dictread.DB, key string, out *ResultSet) (int, error) {
	if key == "" {
		return 0, nil
	}

	seen := make(map[rune]struct{})
	var chars []rune
	for _, r := range key {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		chars = append(chars, r)
	}

	var result []uint32
	for i, r := range chars {
		bucket, err := findCharBucket(db, r)
		if err != nil {
			return 0, err
		}
		if len(bucket) == 0 {
			return 0, nil
		}
		if i == 0 {
			result = bucket
			continue
		}
		result = intersectSorted(result, bucket)
		if len(result) == 0 {
			return 0, nil
		}
	}

	before := out.Len()
	for _, term := range result {
		out.Insert(term)
	}
	return out.Len() - before, nil
}

func findCharBucket(db *dictread.DB, want rune) ([]uint32, error) {
	n := db.CharIndexLen()
	var searchErr error
	pos := sort.Search(n, func(i int) bool {
		r, _, e := db.CharIndexRow(i)
		if e != nil {
			searchErr = e
			return true
		}
		return r >= want
	})
	if searchErr != nil {
		return nil, searchErr
	}
	if pos >= n {
		return nil, nil
	}
	r, terms, err := db.CharIndexRow(pos)
	if err != nil {
		return nil, err
	}
	if r != want {
		return nil, nil
	}
	return terms, nil
}

// intersectSorted returns the sorted intersection of two sorted,
// deduplicated slices.
func intersectSorted(a, b []uint32) []uint32 {
	var out []uint32
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
