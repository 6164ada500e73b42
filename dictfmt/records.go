package dictfmt

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
)

// TagRecord is the packed on-disk layout of a tag row: name/category/notes
// are indices into the string_list section, order is a signed rank used
// for display ordering.
type TagRecord struct {
	Name     StrRef
	Category StrRef
	Order    int32
	Notes    StrRef
}

// TagRecordSize is the encoded byte width of a TagRecord: four
// uint32-sized fields.
const TagRecordSize = 4 * 4

// TermRecord is the packed on-disk layout of a term row.
type TermRecord struct {
	Expression     StrRef
	Reading        StrRef
	SearchKey      StrRef
	Score          int32
	Sequence       uint32
	Frequency      uint32
	Source         StrRef
	Glossary       VecHandle
	Rules          VecHandle
	TermTags       VecHandle
	DefinitionTags VecHandle
}

// TermRecordSize is the encoded byte width of a TermRecord: seven
// uint32-sized scalar fields followed by four 8-byte VecHandles.
const TermRecordSize = 7*4 + 4*8

// KanjiRecord is the packed on-disk layout of a kanji row. Character is
// the kanji's Unicode code point directly, not a string-arena reference:
// unlike every other text-bearing field in this format, a kanji character
// is a single code point and is stored as one.
type KanjiRecord struct {
	Character rune
	Frequency uint32
	Source    StrRef
	Meanings  VecHandle
	Onyomi    VecHandle
	Kunyomi   VecHandle
	Tags      VecHandle
	Stats     VecHandle
}

// KanjiRecordSize is the encoded byte width of a KanjiRecord: three
// uint32-sized scalar fields followed by five 8-byte VecHandles.
const KanjiRecordSize = 3*4 + 5*8

// IndexRow is a row of the prefix or suffix index: a sort key (a StrRef
// into string_list) paired with the term index it resolves to.
type IndexRow struct {
	Key  StrRef
	Term uint32
}

// IndexRowSize is the encoded byte width of an IndexRow.
const IndexRowSize = 2 * 4

// CharRow is a row of the character-containment index: a single codepoint
// paired with the sorted list of term indexes that contain it.
type CharRow struct {
	Character rune
	Indexes   VecHandle
}

// CharRowSize is the encoded byte width of a CharRow.
const CharRowSize = 4 + 8

// newEncoder returns a Borsh encoder writing into a fresh buffer of the
// given expected size, the same construction the teacher's bucketteer
// package uses for its own packed headers (bin.NewBorshEncoder over a
// *bytes.Buffer, not over a raw byte slice).
func newEncoder(sizeHint int) (*bin.Encoder, *bytes.Buffer) {
	buf := bytes.NewBuffer(make([]byte, 0, sizeHint))
	return bin.NewBorshEncoder(buf), buf
}

func writeU32(enc *bin.Encoder, v uint32) error {
	return enc.WriteUint32(v, bin.LE)
}

func readU32(dec *bin.Decoder) (uint32, error) {
	return dec.ReadUint32(bin.LE)
}

// writeI32 writes a signed 32-bit field by its raw bit pattern, since the
// format defines every field's width and byte order directly and an i32
// round-trips losslessly through its uint32 bit pattern.
func writeI32(enc *bin.Encoder, v int32) error {
	return writeU32(enc, uint32(v))
}

func readI32(dec *bin.Decoder) (int32, error) {
	v, err := readU32(dec)
	return int32(v), err
}

func writeVecHandle(enc *bin.Encoder, h VecHandle) error {
	if err := writeU32(enc, h.Offset); err != nil {
		return err
	}
	return writeU32(enc, h.Length)
}

func readVecHandle(dec *bin.Decoder) (VecHandle, error) {
	offset, err := readU32(dec)
	if err != nil {
		return VecHandle{}, err
	}
	length, err := readU32(dec)
	if err != nil {
		return VecHandle{}, err
	}
	return VecHandle{Offset: offset, Length: length}, nil
}

// MarshalBinary encodes the tag record in its packed little-endian layout.
func (t TagRecord) MarshalBinary() ([]byte, error) {
	enc, buf := newEncoder(TagRecordSize)
	if err := writeU32(enc, uint32(t.Name)); err != nil {
		return nil, err
	}
	if err := writeU32(enc, uint32(t.Category)); err != nil {
		return nil, err
	}
	if err := writeI32(enc, t.Order); err != nil {
		return nil, err
	}
	if err := writeU32(enc, uint32(t.Notes)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalTagRecord decodes a tag record from its packed layout.
func UnmarshalTagRecord(data []byte) (TagRecord, error) {
	dec := bin.NewBorshDecoder(data)
	var t TagRecord
	name, err := readU32(dec)
	if err != nil {
		return t, err
	}
	category, err := readU32(dec)
	if err != nil {
		return t, err
	}
	order, err := readI32(dec)
	if err != nil {
		return t, err
	}
	notes, err := readU32(dec)
	if err != nil {
		return t, err
	}
	t.Name, t.Category, t.Order, t.Notes = StrRef(name), StrRef(category), order, StrRef(notes)
	return t, nil
}

// MarshalBinary encodes the term record in its packed little-endian layout.
func (t TermRecord) MarshalBinary() ([]byte, error) {
	enc, buf := newEncoder(TermRecordSize)
	for _, f := range []uint32{uint32(t.Expression), uint32(t.Reading), uint32(t.SearchKey)} {
		if err := writeU32(enc, f); err != nil {
			return nil, err
		}
	}
	if err := writeI32(enc, t.Score); err != nil {
		return nil, err
	}
	for _, f := range []uint32{t.Sequence, t.Frequency, uint32(t.Source)} {
		if err := writeU32(enc, f); err != nil {
			return nil, err
		}
	}
	for _, h := range []VecHandle{t.Glossary, t.Rules, t.TermTags, t.DefinitionTags} {
		if err := writeVecHandle(enc, h); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalTermRecord decodes a term record from its packed layout.
func UnmarshalTermRecord(data []byte) (TermRecord, error) {
	dec := bin.NewBorshDecoder(data)
	var t TermRecord
	expression, err := readU32(dec)
	if err != nil {
		return t, err
	}
	reading, err := readU32(dec)
	if err != nil {
		return t, err
	}
	searchKey, err := readU32(dec)
	if err != nil {
		return t, err
	}
	score, err := readI32(dec)
	if err != nil {
		return t, err
	}
	sequence, err := readU32(dec)
	if err != nil {
		return t, err
	}
	frequency, err := readU32(dec)
	if err != nil {
		return t, err
	}
	source, err := readU32(dec)
	if err != nil {
		return t, err
	}
	glossary, err := readVecHandle(dec)
	if err != nil {
		return t, err
	}
	rules, err := readVecHandle(dec)
	if err != nil {
		return t, err
	}
	termTags, err := readVecHandle(dec)
	if err != nil {
		return t, err
	}
	definitionTags, err := readVecHandle(dec)
	if err != nil {
		return t, err
	}
	t = TermRecord{
		Expression: StrRef(expression), Reading: StrRef(reading), SearchKey: StrRef(searchKey),
		Score: score, Sequence: sequence, Frequency: frequency, Source: StrRef(source),
		Glossary: glossary, Rules: rules, TermTags: termTags, DefinitionTags: definitionTags,
	}
	return t, nil
}

// MarshalBinary encodes the kanji record in its packed little-endian layout.
func (k KanjiRecord) MarshalBinary() ([]byte, error) {
	enc, buf := newEncoder(KanjiRecordSize)
	if err := writeU32(enc, uint32(k.Character)); err != nil {
		return nil, err
	}
	if err := writeU32(enc, k.Frequency); err != nil {
		return nil, err
	}
	if err := writeU32(enc, uint32(k.Source)); err != nil {
		return nil, err
	}
	for _, h := range []VecHandle{k.Meanings, k.Onyomi, k.Kunyomi, k.Tags, k.Stats} {
		if err := writeVecHandle(enc, h); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalKanjiRecord decodes a kanji record from its packed layout.
func UnmarshalKanjiRecord(data []byte) (KanjiRecord, error) {
	dec := bin.NewBorshDecoder(data)
	var k KanjiRecord
	character, err := readU32(dec)
	if err != nil {
		return k, err
	}
	frequency, err := readU32(dec)
	if err != nil {
		return k, err
	}
	source, err := readU32(dec)
	if err != nil {
		return k, err
	}
	meanings, err := readVecHandle(dec)
	if err != nil {
		return k, err
	}
	onyomi, err := readVecHandle(dec)
	if err != nil {
		return k, err
	}
	kunyomi, err := readVecHandle(dec)
	if err != nil {
		return k, err
	}
	tags, err := readVecHandle(dec)
	if err != nil {
		return k, err
	}
	stats, err := readVecHandle(dec)
	if err != nil {
		return k, err
	}
	k = KanjiRecord{
		Character: rune(character), Frequency: frequency, Source: StrRef(source),
		Meanings: meanings, Onyomi: onyomi, Kunyomi: kunyomi, Tags: tags, Stats: stats,
	}
	return k, nil
}

// MarshalBinary encodes the index row in its packed little-endian layout.
func (r IndexRow) MarshalBinary() ([]byte, error) {
	enc, buf := newEncoder(IndexRowSize)
	if err := writeU32(enc, uint32(r.Key)); err != nil {
		return nil, err
	}
	if err := writeU32(enc, r.Term); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalIndexRow decodes an index row from its packed layout.
func UnmarshalIndexRow(data []byte) (IndexRow, error) {
	dec := bin.NewBorshDecoder(data)
	var r IndexRow
	key, err := readU32(dec)
	if err != nil {
		return r, err
	}
	term, err := readU32(dec)
	if err != nil {
		return r, err
	}
	r.Key, r.Term = StrRef(key), term
	return r, nil
}

// MarshalBinary encodes the character row in its packed little-endian layout.
func (r CharRow) MarshalBinary() ([]byte, error) {
	enc, buf := newEncoder(CharRowSize)
	if err := writeU32(enc, uint32(r.Character)); err != nil {
		return nil, err
	}
	if err := writeVecHandle(enc, r.Indexes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalCharRow decodes a character row from its packed layout.
func UnmarshalCharRow(data []byte) (CharRow, error) {
	dec := bin.NewBorshDecoder(data)
	var r CharRow
	character, err := readU32(dec)
	if err != nil {
		return r, err
	}
	indexes, err := readVecHandle(dec)
	if err != nil {
		return r, err
	}
	r.Character, r.Indexes = rune(character), indexes
	return r, nil
}

// MarshalBinary encodes the string handle in its packed little-endian layout.
func (h StrHandle) MarshalBinary() ([]byte, error) {
	enc, buf := newEncoder(8)
	if err := writeU32(enc, h.Offset); err != nil {
		return nil, err
	}
	if err := writeU32(enc, h.Length); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalStrHandle decodes a string handle from its packed layout.
func UnmarshalStrHandle(data []byte) (StrHandle, error) {
	dec := bin.NewBorshDecoder(data)
	offset, err := readU32(dec)
	if err != nil {
		return StrHandle{}, err
	}
	length, err := readU32(dec)
	if err != nil {
		return StrHandle{}, err
	}
	return StrHandle{Offset: offset, Length: length}, nil
}
