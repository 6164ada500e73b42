// Package dicttext implements the two shared arenas a dictionary blob is
// built on top of: an interning string arena (string_list + string_data)
// and a flat vector arena (vector_data) that terms, kanji, and indexes
// address by handle instead of carrying their own copies of shared data.
//
// The interning behavior mirrors github.com/rpcpool/yellowstone-faithful's
// own need to de-duplicate repeated byte strings before writing them to a
// packed file, and the grapheme-aware reversal used for the suffix index
// is the one place this lineage reaches outside the standard library for
// Unicode segmentation.
package dicttext

import (
	"github.com/kotoba-dict/kotoba/dictfmt"
	"github.com/rivo/uniseg"
)

// StringArena interns strings into a shared string_list/string_data pair.
// Ref zero is reserved up front for the empty string, matching the format
// invariant that handle zero always names "".
type StringArena struct {
	data    []byte
	handles []dictfmt.StrHandle
	index   map[string]dictfmt.StrRef
}

// NewStringArena returns an arena with the empty string pre-interned at
// ref zero.
func NewStringArena() *StringArena {
	a := &StringArena{
		index: make(map[string]dictfmt.StrRef),
	}
	a.handles = append(a.handles, dictfmt.StrHandle{Offset: 0, Length: 0})
	a.index[""] = 0
	return a
}

// Intern returns the ref for s, interning it if this is the first time it
// has been seen by this arena.
func (a *StringArena) Intern(s string) dictfmt.StrRef {
	if ref, ok := a.index[s]; ok {
		return ref
	}
	h := dictfmt.StrHandle{Offset: uint32(len(a.data)), Length: uint32(len(s))}
	a.data = append(a.data, s...)
	ref := dictfmt.StrRef(len(a.handles))
	a.handles = append(a.handles, h)
	a.index[s] = ref
	return ref
}

// Lookup resolves a previously interned ref back to its string, reading
// straight out of the byte arena.
func (a *StringArena) Lookup(ref dictfmt.StrRef) (string, bool) {
	if int(ref) >= len(a.handles) {
		return "", false
	}
	h := a.handles[ref]
	start, end := h.Range()
	if end > len(a.data) {
		return "", false
	}
	return string(a.data[start:end]), true
}

// Len returns the number of interned strings, including the empty string
// at ref zero.
func (a *StringArena) Len() int { return len(a.handles) }

// StringList returns the string_list section: one StrHandle per interned
// string, in interning order.
func (a *StringArena) StringList() []dictfmt.StrHandle { return a.handles }

// StringData returns the raw string_data blob backing every handle.
func (a *StringArena) StringData() []byte { return a.data }

// ReverseGraphemes reverses s by extended grapheme cluster rather than by
// byte or code point, so that combining marks and multi-rune clusters stay
// attached to their base character after reversal. This is required for
// the suffix index: reversing a Japanese string byte-wise or rune-wise can
// split a grapheme cluster and change which suffix a lookup key matches.
func ReverseGraphemes(s string) string {
	clusters := make([]string, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		clusters = append(clusters, cluster)
	}
	out := make([]byte, 0, cap(clusters))
	for i := len(clusters) - 1; i >= 0; i-- {
		out = append(out, clusters[i]...)
	}
	return string(out)
}

// VectorArena is a flat, append-only store of uint32 elements. Lists of
// tag indexes, term indexes, and interned string refs are all packed into
// it and addressed by VecHandle; an empty list is always the canonical
// {0, 0} handle rather than a fresh zero-length slot.
type VectorArena struct {
	data []uint32
}

// NewVectorArena returns an empty vector arena.
func NewVectorArena() *VectorArena { return &VectorArena{} }

// Push appends elems as a single contiguous run and returns its handle.
// An empty elems always returns the canonical {0, 0} handle.
func (v *VectorArena) Push(elems []uint32) dictfmt.VecHandle {
	if len(elems) == 0 {
		return dictfmt.VecHandle{}
	}
	h := dictfmt.VecHandle{Offset: uint32(len(v.data)), Length: uint32(len(elems))}
	v.data = append(v.data, elems...)
	return h
}

// Data returns the raw vector_data elements backing every handle pushed
// so far.
func (v *VectorArena) Data() []uint32 { return v.data }
