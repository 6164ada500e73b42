// Package dictread implements the reader half of the dictionary engine:
// given a byte slice in the format package dictfmt defines, it builds a
// DB of typed, decode-on-access views with no parsing pass. Every section
// except vector_data is a view into the caller's slice; vector_data is
// decoded into a newly allocated []uint32 when the DB is built.
//
// The reader never mutates and holds no internal caches, so a *DB is
// trivially safe to share across goroutines once constructed — the same
// property github.com/rpcpool/yellowstone-faithful's compactindexsized.DB
// has over its own memory-mapped index file.
package dictread

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"github.com/kotoba-dict/kotoba/dictfmt"
	"golang.org/x/exp/mmap"
)

// DB is a bundle of typed slices over a single backing byte buffer. The
// record sections and stringData alias that buffer and decode lazily, on
// each call to At/Slice; vectorData is a copy decoded when the DB is
// built, so construction takes time proportional to its length.
type DB struct {
	tags       dictfmt.Span[dictfmt.TagRecord]
	terms      dictfmt.Span[dictfmt.TermRecord]
	kanji      dictfmt.Span[dictfmt.KanjiRecord]
	prefixIdx  dictfmt.Span[dictfmt.IndexRow]
	suffixIdx  dictfmt.Span[dictfmt.IndexRow]
	charIdx    dictfmt.Span[dictfmt.CharRow]
	vectorData []uint32
	stringList dictfmt.Span[dictfmt.StrHandle]
	stringData []byte
}

// cursor walks a byte slice section by section, each one a little-endian
// u32 count followed by that many fixed-size records.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) readCount(section dictfmt.Section) (int, error) {
	if c.pos+4 > len(c.data) {
		return 0, fmt.Errorf("dictread: truncated count for section %s", section)
	}
	n := binary.LittleEndian.Uint32(c.data[c.pos : c.pos+4])
	c.pos += 4
	return int(n), nil
}

func (c *cursor) readBytes(section dictfmt.Section, n int) ([]byte, error) {
	if c.pos+n > len(c.data) {
		return nil, fmt.Errorf("dictread: truncated body for section %s: want %d bytes, have %d", section, n, len(c.data)-c.pos)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func readFixedSection[T any](c *cursor, section dictfmt.Section, decode func([]byte) (T, error)) (dictfmt.Span[T], error) {
	count, err := c.readCount(section)
	if err != nil {
		return dictfmt.Span[T]{}, err
	}
	body, err := c.readBytes(section, count*section.RecordSize())
	if err != nil {
		return dictfmt.Span[T]{}, err
	}
	return dictfmt.NewSpan(body, count, section.RecordSize(), decode)
}

// Load parses data in place and returns a DB aliasing it. Apart from the
// returned DB value, its only allocation is the []uint32 copy of
// vector_data; the caller must keep data alive for as long as the DB (and anything
// derived from it) is in use.
func Load(data []byte) (*DB, error) {
	c := &cursor{data: data}

	tags, err := readFixedSection(c, dictfmt.SectionTags, dictfmt.UnmarshalTagRecord)
	if err != nil {
		return nil, err
	}
	terms, err := readFixedSection(c, dictfmt.SectionTerms, dictfmt.UnmarshalTermRecord)
	if err != nil {
		return nil, err
	}
	kanji, err := readFixedSection(c, dictfmt.SectionKanji, dictfmt.UnmarshalKanjiRecord)
	if err != nil {
		return nil, err
	}
	prefixIdx, err := readFixedSection(c, dictfmt.SectionPrefixIndex, dictfmt.UnmarshalIndexRow)
	if err != nil {
		return nil, err
	}
	suffixIdx, err := readFixedSection(c, dictfmt.SectionSuffixIndex, dictfmt.UnmarshalIndexRow)
	if err != nil {
		return nil, err
	}
	charIdx, err := readFixedSection(c, dictfmt.SectionCharIndex, dictfmt.UnmarshalCharRow)
	if err != nil {
		return nil, err
	}

	vecCount, err := c.readCount(dictfmt.SectionVectorData)
	if err != nil {
		return nil, err
	}
	vecBytes, err := c.readBytes(dictfmt.SectionVectorData, vecCount*4)
	if err != nil {
		return nil, err
	}
	vectorData := make([]uint32, vecCount)
	for i := range vectorData {
		vectorData[i] = binary.LittleEndian.Uint32(vecBytes[i*4 : i*4+4])
	}

	stringList, err := readFixedSection(c, dictfmt.SectionStringList, dictfmt.UnmarshalStrHandle)
	if err != nil {
		return nil, err
	}

	dataLen, err := c.readCount(dictfmt.SectionStringData)
	if err != nil {
		return nil, err
	}
	// string_data is the final section, so a blob truncated at its tail
	// still has a well-formed count prefix but fewer bytes than
	// declared. Rather than erroring here, take whatever remains: the
	// resulting DB will have an under-length string_data, which
	// dictvalidate.Check catches as a structural violation. This mirrors
	// load's documented contract of trusting declared lengths and
	// leaving verification to the validator.
	remaining := len(c.data) - c.pos
	n := dataLen
	if n > remaining {
		n = remaining
	}
	stringData := c.data[c.pos : c.pos+n]
	c.pos += n

	return &DB{
		tags: tags, terms: terms, kanji: kanji,
		prefixIdx: prefixIdx, suffixIdx: suffixIdx, charIdx: charIdx,
		vectorData: vectorData, stringList: stringList, stringData: stringData,
	}, nil
}

// LoadFile memory-maps path and loads a DB from its contents. The mapping
// is read once into an owned buffer during this call and then closed;
// golang.org/x/exp/mmap.ReaderAt never exposes its underlying mapping as
// a raw slice, so this is the closest equivalent to the format's
// zero-copy intent that its public API allows without resorting to
// unsafe. Load then runs on that buffer as it does on any other slice.
func LoadFile(path string) (*DB, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictread: open %s: %w: %w", path, dictfmt.ErrIO, err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			slog.Warn("dictread: closing mmap failed", "path", path, "error", err)
		}
	}()

	buf := make([]byte, r.Len())
	if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, fmt.Errorf("dictread: read %s: %w: %w", path, dictfmt.ErrIO, err)
	}
	return Load(buf)
}
