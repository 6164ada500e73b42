package dictsearch_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kotoba-dict/kotoba/dictbuild"
	"github.com/kotoba-dict/kotoba/dictread"
	"github.com/kotoba-dict/kotoba/dictsearch"
)

func load(t *testing.T, build func(b *dictbuild.Builder)) *dictread.DB {
	t.Helper()
	b := dictbuild.New()
	build(b)
	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))
	db, err := dictread.Load(buf.Bytes())
	require.NoError(t, err)
	return db
}

func TestSearchTermAndPrefix(t *testing.T) {
	db := load(t, func(b *dictbuild.Builder) {
		_, err := b.PushTag(dictbuild.TagData{Name: "n"})
		require.NoError(t, err)
		require.NoError(t, b.PushTerm(dictbuild.TermData{
			Expression: "犬", Reading: "いぬ", Sequence: 1, Frequency: 100,
			Glossary: []string{"dog"}, TermTags: []string{"n"},
		}))
	})

	out := dictsearch.NewResultSet()
	n, err := dictsearch.SearchTerm(db, "犬", out)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []uint32{0}, out.Indexes())

	out2 := dictsearch.NewResultSet()
	_, err = dictsearch.SearchTerm(db, "いぬ", out2)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, out2.Indexes())

	out3 := dictsearch.NewResultSet()
	n3, err := dictsearch.SearchTerm(db, "dog", out3)
	require.NoError(t, err)
	require.Equal(t, 0, n3)

	out4 := dictsearch.NewResultSet()
	_, err = dictsearch.SearchPrefix(db, "い", out4)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, out4.Indexes())
}

func TestSearchPrefixAndSuffixAfterRelevanceSort(t *testing.T) {
	db := load(t, func(b *dictbuild.Builder) {
		require.NoError(t, b.PushTerm(dictbuild.TermData{Expression: "食べる", Frequency: 10}))
		require.NoError(t, b.PushTerm(dictbuild.TermData{Expression: "食う", Frequency: 50}))
	})

	out := dictsearch.NewResultSet()
	_, err := dictsearch.SearchPrefix(db, "食", out)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, out.Indexes())

	out2 := dictsearch.NewResultSet()
	_, err = dictsearch.SearchSuffix(db, "る", out2)
	require.NoError(t, err)
	require.Equal(t, []uint32{1}, out2.Indexes())
}

func TestSearchCharsIntersectsBuckets(t *testing.T) {
	db := load(t, func(b *dictbuild.Builder) {
		require.NoError(t, b.PushTerm(dictbuild.TermData{Expression: "日本語", Reading: "にほんご", Frequency: 1}))
		require.NoError(t, b.PushTerm(dictbuild.TermData{Expression: "日本", Reading: "にほん", Frequency: 1}))
	})

	out := dictsearch.NewResultSet()
	_, err := dictsearch.SearchChars(db, "日本", out)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, out.Indexes())

	out2 := dictsearch.NewResultSet()
	_, err = dictsearch.SearchChars(db, "語", out2)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, out2.Indexes())
}

func TestSearchTermEmptyKeywordMatchesNothing(t *testing.T) {
	db := load(t, func(b *dictbuild.Builder) {
		require.NoError(t, b.PushTerm(dictbuild.TermData{Expression: "猫"}))
	})
	out := dictsearch.NewResultSet()
	n, err := dictsearch.SearchTerm(db, "", out)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
