package dictvalidate_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kotoba-dict/kotoba/dictbuild"
	"github.com/kotoba-dict/kotoba/dictread"
	"github.com/kotoba-dict/kotoba/dictvalidate"
)

func buildBlob(t *testing.T) []byte {
	t.Helper()
	b := dictbuild.New()
	_, err := b.PushTag(dictbuild.TagData{Name: "n", Category: "noun", Order: 1, Notes: "普通"})
	require.NoError(t, err)
	require.NoError(t, b.PushTerm(dictbuild.TermData{
		Expression: "犬", Reading: "いぬ", Sequence: 1, Frequency: 100,
		Glossary: []string{"dog"}, TermTags: []string{"n"},
	}))
	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))
	return buf.Bytes()
}

func TestCheckPassesOnWellFormedBlob(t *testing.T) {
	blob := buildBlob(t)
	db, err := dictread.Load(blob)
	require.NoError(t, err)
	require.NoError(t, dictvalidate.Check(db))
}

func TestCheckPassesWithMultipleTermsKanjiAndSearchKeys(t *testing.T) {
	b := dictbuild.New()
	_, err := b.PushTag(dictbuild.TagData{Name: "n", Category: "noun"})
	require.NoError(t, err)
	require.NoError(t, b.PushTerm(dictbuild.TermData{
		Expression: "食べる", Reading: "たべる", SearchKey: "taberu", Frequency: 10, Score: 1, TermTags: []string{"n"},
	}))
	require.NoError(t, b.PushTerm(dictbuild.TermData{
		Expression: "食う", Reading: "くう", Frequency: 50,
	}))
	require.NoError(t, b.PushTerm(dictbuild.TermData{
		Expression: "猫", Frequency: 50, Score: 3,
	}))
	require.NoError(t, b.PushKanji(dictbuild.KanjiData{Character: '食', Frequency: 20}))
	require.NoError(t, b.PushKanji(dictbuild.KanjiData{Character: '猫', Frequency: 5}))

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))

	db, err := dictread.Load(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, dictvalidate.Check(db))
}

func TestCheckReportsInvalidUTF8InStringData(t *testing.T) {
	b := dictbuild.New()
	require.NoError(t, b.PushTerm(dictbuild.TermData{
		Expression: string([]byte{0xff, 0xfe}),
	}))
	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))

	db, err := dictread.Load(buf.Bytes())
	require.NoError(t, err)

	err = dictvalidate.Check(db)
	require.Error(t, err)
	var malformed *dictvalidate.MalformedBlobError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "string_list", malformed.Section)
}

func TestCheckReportsTruncatedBlob(t *testing.T) {
	blob := buildBlob(t)
	truncated := blob[:len(blob)-1]
	db, err := dictread.Load(truncated)
	require.NoError(t, err)

	err = dictvalidate.Check(db)
	require.Error(t, err)
	var malformed *dictvalidate.MalformedBlobError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "string_list", malformed.Section)
}
