package dictfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagRecordRoundTrip(t *testing.T) {
	want := TagRecord{Name: 1, Category: 2, Order: -5, Notes: 3}
	b, err := want.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, TagRecordSize)
	got, err := UnmarshalTagRecord(b)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestTermRecordRoundTrip(t *testing.T) {
	want := TermRecord{
		Expression: 1, Reading: 2, SearchKey: 0, Score: -3, Sequence: 7, Frequency: 100, Source: 4,
		Glossary:       VecHandle{Offset: 0, Length: 2},
		Rules:          VecHandle{},
		TermTags:       VecHandle{Offset: 2, Length: 1},
		DefinitionTags: VecHandle{},
	}
	b, err := want.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, TermRecordSize)
	got, err := UnmarshalTermRecord(b)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestKanjiRecordRoundTrip(t *testing.T) {
	want := KanjiRecord{
		Character: '猫', Frequency: 42, Source: 1,
		Meanings: VecHandle{Offset: 0, Length: 1},
		Onyomi:   VecHandle{},
		Kunyomi:  VecHandle{Offset: 1, Length: 1},
		Tags:     VecHandle{},
		Stats:    VecHandle{Offset: 2, Length: 2},
	}
	b, err := want.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, KanjiRecordSize)
	got, err := UnmarshalKanjiRecord(b)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestIndexRowRoundTrip(t *testing.T) {
	want := IndexRow{Key: 5, Term: 9}
	b, err := want.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, IndexRowSize)
	got, err := UnmarshalIndexRow(b)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestCharRowRoundTrip(t *testing.T) {
	want := CharRow{Character: '字', Indexes: VecHandle{Offset: 3, Length: 4}}
	b, err := want.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, CharRowSize)
	got, err := UnmarshalCharRow(b)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestStrHandleRoundTrip(t *testing.T) {
	want := StrHandle{Offset: 10, Length: 20}
	b, err := want.MarshalBinary()
	require.NoError(t, err)
	got, err := UnmarshalStrHandle(b)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestVecHandleIsEmpty(t *testing.T) {
	require.True(t, VecHandle{}.IsEmpty())
	require.False(t, VecHandle{Offset: 0, Length: 1}.IsEmpty())
}
