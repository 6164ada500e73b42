package dictread_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kotoba-dict/kotoba/dictbuild"
	"github.com/kotoba-dict/kotoba/dictread"
)

func buildSample(t *testing.T) *dictread.DB {
	t.Helper()
	b := dictbuild.New()
	_, err := b.PushTag(dictbuild.TagData{Name: "n", Category: "noun", Order: 1, Notes: "common noun"})
	require.NoError(t, err)

	require.NoError(t, b.PushTerm(dictbuild.TermData{
		Expression: "猫", Reading: "ねこ", Sequence: 1, Frequency: 500,
		Glossary: []string{"cat"}, TermTags: []string{"n"},
	}))
	require.NoError(t, b.PushTerm(dictbuild.TermData{
		Expression: "猫背", Reading: "ねこぜ", Sequence: 2, Frequency: 10,
		Glossary: []string{"stooped back"},
	}))

	require.NoError(t, b.PushKanji(dictbuild.KanjiData{
		Character: '猫', Frequency: 42, Meanings: []string{"cat"}, Tags: []string{"n"},
		Stats: map[string]string{"n": "1"},
	}))

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))

	db, err := dictread.Load(buf.Bytes())
	require.NoError(t, err)
	return db
}

func TestLoadRoundTripsTermsAndTags(t *testing.T) {
	db := buildSample(t)
	require.Equal(t, 2, db.TermCount())
	require.Equal(t, 1, db.TagCount())
	require.Equal(t, 1, db.KanjiCount())

	term, err := db.Term(0)
	require.NoError(t, err)
	// Sorted by frequency descending: 猫 (500) comes before 猫背 (10).
	require.Equal(t, "猫", term.Expression())
	require.Equal(t, "ねこ", term.Reading())
	freq, ok := term.Frequency()
	require.True(t, ok)
	require.Equal(t, uint32(500), freq)
	require.Equal(t, []string{"cat"}, term.Glossary())
	require.Len(t, term.TermTags(), 1)
	require.Equal(t, "n", term.TermTags()[0].Name())
}

func TestLoadRoundTripsKanji(t *testing.T) {
	db := buildSample(t)
	k, err := db.Kanji(0)
	require.NoError(t, err)
	require.Equal(t, '猫', k.Character())
	require.Equal(t, []string{"cat"}, k.Meanings())
	stats, err := k.Stats()
	require.NoError(t, err)
	require.Equal(t, "1", stats["n"])
}

func TestRelevanceSortAppliedBeforeLoad(t *testing.T) {
	db := buildSample(t)
	term, err := db.Term(1)
	require.NoError(t, err)
	require.Equal(t, "猫背", term.Expression())
	freq, ok := term.Frequency()
	require.True(t, ok)
	require.Equal(t, uint32(10), freq)
}
