// Package dictsearch implements the binary-search-based lookup
// operations over a loaded dictionary: exact term lookup, prefix
// search, suffix search, and character-containment search, each
// accumulating matches into a shared, deduplicating, order-preserving
// ResultSet.
package dictsearch

import "sort"

// ResultSet accumulates term indexes from one or more searches, keeping
// them sorted and deduplicated the way the original implementation's
// BTreeSet<usize>-backed result set does.
type ResultSet struct {
	sorted []uint32
	seen   map[uint32]struct{}
}

// NewResultSet returns an empty result set.
func NewResultSet() *ResultSet {
	return &ResultSet{seen: make(map[uint32]struct{})}
}

// Len returns the number of distinct term indexes accumulated so far.
func (r *ResultSet) Len() int { return len(r.sorted) }

// Insert adds index to the set, reporting whether it was newly added.
func (r *ResultSet) Insert(index uint32) bool {
	if _, ok := r.seen[index]; ok {
		return false
	}
	r.seen[index] = struct{}{}
	pos := sort.Search(len(r.sorted), func(i int) bool { return r.sorted[i] >= index })
	r.sorted = append(r.sorted, 0)
	copy(r.sorted[pos+1:], r.sorted[pos:])
	r.sorted[pos] = index
	return true
}

// Indexes returns the accumulated term indexes in ascending order. The
// returned slice must not be mutated by the caller.
func (r *ResultSet) Indexes() []uint32 { return r.sorted }
