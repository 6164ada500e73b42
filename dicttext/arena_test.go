package dicttext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringArenaEmptyIsRefZero(t *testing.T) {
	a := NewStringArena()
	require.Equal(t, 1, a.Len())
	got, ok := a.Lookup(0)
	require.True(t, ok)
	require.Equal(t, "", got)
}

func TestStringArenaInterningIsIdempotent(t *testing.T) {
	a := NewStringArena()
	r1 := a.Intern("猫")
	r2 := a.Intern("猫")
	require.Equal(t, r1, r2)
	require.Equal(t, 2, a.Len())

	r3 := a.Intern("犬")
	require.NotEqual(t, r1, r3)
	require.Equal(t, 3, a.Len())

	got, ok := a.Lookup(r1)
	require.True(t, ok)
	require.Equal(t, "猫", got)
}

func TestStringArenaLookupOutOfRange(t *testing.T) {
	a := NewStringArena()
	_, ok := a.Lookup(99)
	require.False(t, ok)
}

func TestVectorArenaEmptyPushIsCanonicalHandle(t *testing.T) {
	v := NewVectorArena()
	h := v.Push(nil)
	require.True(t, h.IsEmpty())
	require.Equal(t, uint32(0), h.Offset)
	require.Equal(t, uint32(0), h.Length)
}

func TestVectorArenaPushAppends(t *testing.T) {
	v := NewVectorArena()
	h1 := v.Push([]uint32{1, 2, 3})
	h2 := v.Push([]uint32{4, 5})
	require.Equal(t, uint32(0), h1.Offset)
	require.Equal(t, uint32(3), h1.Length)
	require.Equal(t, uint32(3), h2.Offset)
	require.Equal(t, uint32(2), h2.Length)
	require.Equal(t, []uint32{1, 2, 3, 4, 5}, v.Data())
}

func TestReverseGraphemesASCII(t *testing.T) {
	require.Equal(t, "cba", ReverseGraphemes("abc"))
}

func TestReverseGraphemesKeepsClustersIntact(t *testing.T) {
	// "ka" + combining dakuten should stay together as one cluster through
	// reversal instead of detaching the mark from its base character.
	s := "がんじ" // か + combining dakuten, ん, じ
	rev := ReverseGraphemes(s)
	require.Equal(t, "じんが", rev)
	require.Equal(t, s, ReverseGraphemes(rev))
}
