package dictbuild

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kotoba-dict/kotoba/dictfmt"
	"github.com/kotoba-dict/kotoba/freqtable"
)

// failingWriter returns an error from every Write call, simulating a
// sink failure (disk full, closed pipe) partway through emit.
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("simulated write failure")
}

func TestPushTermRejectsEmptyExpression(t *testing.T) {
	b := New()
	err := b.PushTerm(TermData{Expression: ""})
	require.ErrorIs(t, err, ErrEmptyExpression)
}

func TestPushTermRejectsUnknownTag(t *testing.T) {
	b := New()
	err := b.PushTerm(TermData{Expression: "猫", TermTags: []string{"noun"}})
	require.ErrorIs(t, err, ErrUnknownTag)
}

func TestPushTagThenPushTermResolves(t *testing.T) {
	b := New()
	_, err := b.PushTag(TagData{Name: "noun", Category: "n", Order: 1})
	require.NoError(t, err)
	err = b.PushTerm(TermData{Expression: "猫", TermTags: []string{"noun"}})
	require.NoError(t, err)
}

func TestWriteSealsBuilder(t *testing.T) {
	b := New()
	require.NoError(t, b.PushTerm(TermData{Expression: "猫", Frequency: 1}))
	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))

	err := b.PushTerm(TermData{Expression: "犬"})
	require.ErrorIs(t, err, ErrSealed)

	_, err = b.PushTag(TagData{Name: "x"})
	require.ErrorIs(t, err, ErrSealed)

	err = b.Write(&buf)
	require.ErrorIs(t, err, ErrSealed)
}

func TestWriteEmitsNonEmptyBlob(t *testing.T) {
	b := New()
	_, err := b.PushTag(TagData{Name: "n", Category: "noun", Order: 1, Notes: "普通"})
	require.NoError(t, err)
	err = b.PushTerm(TermData{
		Expression: "犬", Reading: "いぬ", Sequence: 1, Frequency: 100,
		Glossary: []string{"dog"}, TermTags: []string{"n"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))
	require.NotZero(t, buf.Len())
}

func TestRelevanceSortOrdersTermsByFrequencyThenScore(t *testing.T) {
	b := New()
	// 飲む ties 食べる on frequency but has the lower score, so it must sort
	// after it even though it was pushed first.
	require.NoError(t, b.PushTerm(TermData{Expression: "飲む", Frequency: 10, Score: -1}))
	require.NoError(t, b.PushTerm(TermData{Expression: "食べる", Frequency: 10}))
	require.NoError(t, b.PushTerm(TermData{Expression: "食う", Frequency: 50}))
	b.sortTerms()
	require.Equal(t, "食う", b.strOf(b.terms[0].expression))
	require.Equal(t, "食べる", b.strOf(b.terms[1].expression))
	require.Equal(t, "飲む", b.strOf(b.terms[2].expression))
}

func TestKanjiStatsFlattenedInTagNameOrder(t *testing.T) {
	b := New()
	_, err := b.PushTag(TagData{Name: "grade"})
	require.NoError(t, err)
	_, err = b.PushTag(TagData{Name: "jlpt"})
	require.NoError(t, err)
	err = b.PushKanji(KanjiData{
		Character: '猫',
		Stats:     map[string]string{"jlpt": "N2", "grade": "8"},
	})
	require.NoError(t, err)
	require.Len(t, b.kanji[0].stats, 4)
	// "grade" sorts before "jlpt"; stats are (tagIndex, valueRef) pairs.
	gradeIdx, _ := b.GetTag("grade")
	require.Equal(t, gradeIdx, b.kanji[0].stats[0])
}

func TestImportTermFillsFrequencyFromTable(t *testing.T) {
	b := New()
	freq := freqtable.New()
	freq.Set("犬", 1234)
	require.NoError(t, b.ImportTerm(TermData{Expression: "犬"}, freq))
	require.Equal(t, uint32(1234), b.terms[0].frequency)
}

func TestImportTermLeavesFrequencyZeroWithoutTable(t *testing.T) {
	b := New()
	require.NoError(t, b.ImportTerm(TermData{Expression: "犬"}, nil))
	require.Zero(t, b.terms[0].frequency)
}

func TestImportKanjiFillsFrequencyFromTable(t *testing.T) {
	b := New()
	freq := freqtable.New()
	freq.Set("猫", 56)
	require.NoError(t, b.ImportKanji(KanjiData{Character: '猫'}, freq))
	require.Equal(t, uint32(56), b.kanji[0].frequency)
}

func TestMergeTermFrequenciesUpdatesAlreadyPushedTerms(t *testing.T) {
	b := New()
	require.NoError(t, b.PushTerm(TermData{Expression: "犬"}))
	require.NoError(t, b.PushTerm(TermData{Expression: "猫"}))

	require.NoError(t, b.MergeTermFrequencies([]FreqEntry{{Key: "犬", Count: 10}}))
	require.Equal(t, uint32(10), b.terms[0].frequency)
	require.Zero(t, b.terms[1].frequency)
}

func TestMergeTermFrequenciesFailsAfterSeal(t *testing.T) {
	b := New()
	require.NoError(t, b.PushTerm(TermData{Expression: "犬"}))
	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))

	err := b.MergeTermFrequencies([]FreqEntry{{Key: "犬", Count: 10}})
	require.ErrorIs(t, err, ErrSealed)
}

func TestWriteWrapsSinkFailureInErrIO(t *testing.T) {
	b := New()
	require.NoError(t, b.PushTerm(TermData{Expression: "猫"}))

	err := b.Write(failingWriter{})
	require.ErrorIs(t, err, dictfmt.ErrIO)
}

func TestMergeKanjiFrequenciesUpdatesAlreadyPushedKanji(t *testing.T) {
	b := New()
	require.NoError(t, b.PushKanji(KanjiData{Character: '猫'}))
	require.NoError(t, b.MergeKanjiFrequencies([]FreqEntry{{Key: "猫", Count: 56}}))
	require.Equal(t, uint32(56), b.kanji[0].frequency)
}
