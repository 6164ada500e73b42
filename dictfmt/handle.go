// Package dictfmt defines the packed, little-endian on-disk record layout
// shared by the builder and the reader: fixed-width structs addressed by
// offset/length handles into the string and vector arenas, plus the
// encode/decode helpers that move them to and from a byte stream.
//
// Every record is encoded and decoded field by field through
// github.com/gagliardetto/binary, the same little-endian codec the
// indexing packages in this lineage use for their own packed headers.
// Decoding reads straight from the caller's byte slice; encoding writes
// each record into a small, freshly allocated buffer.
package dictfmt

// StrHandle addresses a byte range inside the string arena's string_data
// blob. It is never embedded directly in a record; records hold a StrRef
// that names a slot in the string_list section, and that slot holds the
// StrHandle. Handle zero is the canonical empty-string range {0, 0}.
type StrHandle struct {
	Offset uint32
	Length uint32
}

// StrRef is the index of a StrHandle within the string_list section.
// Ref zero always resolves to the empty string.
type StrRef uint32

// VecHandle addresses a range of uint32 elements inside vector_data,
// embedded directly in records. An empty list is always {0, 0}.
type VecHandle struct {
	Offset uint32
	Length uint32
}

// IsEmpty reports whether the handle names an empty range, that is,
// whether its Length is zero; Offset is not consulted.
func (h VecHandle) IsEmpty() bool { return h.Length == 0 }

// Range returns the [start, end) byte bounds named by the handle.
func (h StrHandle) Range() (int, int) {
	return int(h.Offset), int(h.Offset) + int(h.Length)
}

// Range returns the [start, end) element bounds named by the handle.
func (h VecHandle) Range() (int, int) {
	return int(h.Offset), int(h.Offset) + int(h.Length)
}
