// Package freqtable is a small key-to-frequency map used while importing
// dictionary source data: each imported term or kanji character is looked
// up here to find how often it appears in a corpus frequency list before
// the builder writes its Frequency field.
//
// It replaces github.com/rpcpool/yellowstone-faithful/indexmeta's
// linear-scan byte-string KV list with a hash-keyed map, since a
// frequency table only ever needs string-to-count lookups and is rebuilt
// fresh for every import run rather than being persisted to disk.
package freqtable

import "github.com/cespare/xxhash/v2"

// Table is a merge-friendly map from an arbitrary key (a term expression
// or a single kanji character) to an accumulated frequency count.
type Table struct {
	counts map[uint64]uint64
	keys   map[uint64]string
}

// New returns an empty frequency table.
func New() *Table {
	return &Table{
		counts: make(map[uint64]uint64),
		keys:   make(map[uint64]string),
	}
}

func hashKey(key string) uint64 {
	return xxhash.Sum64String(key)
}

// Set records count as the frequency for key, overwriting any previous
// value. Used when loading a corpus frequency list, where each key
// appears at most once.
func (t *Table) Set(key string, count uint64) {
	h := hashKey(key)
	t.counts[h] = count
	t.keys[h] = key
}

// Merge adds other's entries into t, summing counts for keys present in
// both tables. Used to combine frequency lists from multiple source
// dictionaries before a single import pass.
func (t *Table) Merge(other *Table) {
	for h, c := range other.counts {
		t.counts[h] += c
		if _, ok := t.keys[h]; !ok {
			t.keys[h] = other.keys[h]
		}
	}
}

// Get returns the frequency recorded for key, or 0 if key has never been
// set. A missing key and an explicit zero frequency are indistinguishable,
// which matches the format's convention that a Frequency field of 0 means
// "unknown or absent" (original_source/db/src/data.rs maps a zero
// frequency to None).
func (t *Table) Get(key string) uint64 {
	return t.counts[hashKey(key)]
}

// Len returns the number of distinct keys recorded.
func (t *Table) Len() int { return len(t.counts) }
