// Package dictbuild implements the builder half of the dictionary engine:
// a single-use, non-concurrent accumulator that interns tags, terms, and
// kanji, then emits a self-describing binary blob in the layout defined
// by package dictfmt.
//
// The builder mirrors the state machine and error-propagation style of
// github.com/rpcpool/yellowstone-faithful's compactindexsized.Builder
// (Open state that accepts inserts, a single terminal write/seal call
// that consumes the builder) while replacing its perfect-hash bucket
// format with the sorted, binary-searchable index arrays this engine's
// search layer requires.
package dictbuild

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kotoba-dict/kotoba/dictfmt"
	"github.com/kotoba-dict/kotoba/dicttext"
	"github.com/kotoba-dict/kotoba/freqtable"
)

// ErrSealed is returned by any mutating call made after write() has run.
var ErrSealed = errors.New("dictbuild: builder is sealed")

// ErrUnknownTag is returned when a term or kanji references a tag name
// that was never registered with PushTag.
var ErrUnknownTag = errors.New("dictbuild: unknown tag")

// ErrEmptyExpression is returned by PushTerm when the term's expression
// is the empty string. An empty expression can never be a meaningful
// dictionary headword, and the prefix/suffix indexes rely on expression
// always resolving to a non-zero string handle.
var ErrEmptyExpression = errors.New("dictbuild: term expression must not be empty")

// TagData is the caller-facing description of a tag. Category, Notes,
// and Order are optional; the zero value means "absent" (empty string,
// rank zero).
type TagData struct {
	Name     string
	Category string
	Order    int32
	Notes    string
}

// TermData is the caller-facing description of a term. Rules, TermTags,
// and DefinitionTags name tags by the string previously passed to
// PushTag; Frequency defaults to zero ("unknown") unless set directly or
// through ImportTerm.
type TermData struct {
	Expression     string
	Reading        string
	SearchKey      string
	Source         string
	Score          int32
	Sequence       uint32
	Frequency      uint32
	Glossary       []string
	Rules          []string
	TermTags       []string
	DefinitionTags []string
}

// KanjiData is the caller-facing description of a kanji entry. Stats maps
// a tag name to a value string, mirroring the source format's
// "(tag, value)" pair list; entries are flattened in tag-name sort order
// so that two imports of equivalent data produce byte-identical output.
type KanjiData struct {
	Character rune
	Source    string
	Frequency uint32
	Meanings  []string
	Onyomi    []string
	Kunyomi   []string
	Tags      []string
	Stats     map[string]string
}

type pendingTerm struct {
	expression, reading, searchKey, source dictfmt.StrRef
	score                                  int32
	sequence, frequency                    uint32
	glossary                               []dictfmt.StrRef
	rules, termTags, definitionTags        []uint32
}

type pendingKanji struct {
	character            rune
	source               dictfmt.StrRef
	frequency            uint32
	meanings, onyomi     []dictfmt.StrRef
	kunyomi              []dictfmt.StrRef
	tags                 []uint32
	stats                []uint32 // flattened (tagIndex, valueRef) pairs
}

type pendingTag struct {
	name, category, notes dictfmt.StrRef
	order                 int32
}

// Builder accumulates a dictionary in memory and, exactly once, emits it
// as a binary blob. It is not safe for concurrent use.
type Builder struct {
	strings *dicttext.StringArena

	tags     []pendingTag
	tagIndex map[string]uint32

	terms []pendingTerm
	kanji []pendingKanji

	sealed bool
}

// New returns an empty builder with handle zero pre-bound to the empty
// string, ready to accept tags, terms, and kanji.
func New() *Builder {
	return &Builder{
		strings:  dicttext.NewStringArena(),
		tagIndex: make(map[string]uint32),
	}
}

// Intern interns s and returns its handle, appending to the string arena
// only the first time s is seen.
func (b *Builder) Intern(s string) (dictfmt.StrRef, error) {
	if b.sealed {
		return 0, ErrSealed
	}
	return b.strings.Intern(s), nil
}

// PushTag registers a tag and returns its index. Tags must be pushed
// before any term or kanji that references their name.
func (b *Builder) PushTag(d TagData) (uint32, error) {
	if b.sealed {
		return 0, ErrSealed
	}
	t := pendingTag{
		name:     b.strings.Intern(d.Name),
		category: b.strings.Intern(d.Category),
		order:    d.Order,
		notes:    b.strings.Intern(d.Notes),
	}
	index := uint32(len(b.tags))
	b.tags = append(b.tags, t)
	b.tagIndex[d.Name] = index
	return index, nil
}

// GetTag resolves a previously pushed tag by name.
func (b *Builder) GetTag(name string) (uint32, error) {
	index, ok := b.tagIndex[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrUnknownTag)
	}
	return index, nil
}

// GetTags resolves a batch of tag names, failing on the first unknown one.
func (b *Builder) GetTags(names []string) ([]uint32, error) {
	out := make([]uint32, 0, len(names))
	for _, name := range names {
		index, err := b.GetTag(name)
		if err != nil {
			return nil, err
		}
		out = append(out, index)
	}
	return out, nil
}

func (b *Builder) internAll(values []string) []dictfmt.StrRef {
	out := make([]dictfmt.StrRef, len(values))
	for i, v := range values {
		out[i] = b.strings.Intern(v)
	}
	return out
}

// PushTerm interns d's string fields, resolves its tag name lists, and
// appends the resulting term. The term's final position in the blob is
// decided later by the relevance sort in Write, so PushTerm returns no
// index for it.
func (b *Builder) PushTerm(d TermData) error {
	if b.sealed {
		return ErrSealed
	}
	expression := b.strings.Intern(d.Expression)
	if expression == 0 {
		return ErrEmptyExpression
	}
	rules, err := b.GetTags(d.Rules)
	if err != nil {
		return err
	}
	termTags, err := b.GetTags(d.TermTags)
	if err != nil {
		return err
	}
	definitionTags, err := b.GetTags(d.DefinitionTags)
	if err != nil {
		return err
	}
	t := pendingTerm{
		expression:      expression,
		reading:         b.strings.Intern(d.Reading),
		searchKey:       b.strings.Intern(d.SearchKey),
		source:          b.strings.Intern(d.Source),
		score:           d.Score,
		sequence:        d.Sequence,
		frequency:       d.Frequency,
		glossary:        b.internAll(d.Glossary),
		rules:           rules,
		termTags:        termTags,
		definitionTags:  definitionTags,
	}
	b.terms = append(b.terms, t)
	return nil
}

// PushKanji interns d's string fields, resolves its tag references, and
// appends the resulting kanji entry.
func (b *Builder) PushKanji(d KanjiData) error {
	if b.sealed {
		return ErrSealed
	}
	tags, err := b.GetTags(d.Tags)
	if err != nil {
		return err
	}
	statKeys := make([]string, 0, len(d.Stats))
	for k := range d.Stats {
		statKeys = append(statKeys, k)
	}
	sort.Strings(statKeys)
	stats := make([]uint32, 0, len(statKeys)*2)
	for _, k := range statKeys {
		tagIndex, err := b.GetTag(k)
		if err != nil {
			return err
		}
		stats = append(stats, tagIndex, uint32(b.strings.Intern(d.Stats[k])))
	}
	k := pendingKanji{
		character: d.Character,
		source:    b.strings.Intern(d.Source),
		frequency: d.Frequency,
		meanings:  b.internAll(d.Meanings),
		onyomi:    b.internAll(d.Onyomi),
		kunyomi:   b.internAll(d.Kunyomi),
		tags:      tags,
		stats:     stats,
	}
	b.kanji = append(b.kanji, k)
	return nil
}

// ImportTerm looks up d's expression in freq to fill in Frequency, then
// pushes the term as PushTerm would. It is the convenience entry point
// for import adapters that carry a separate corpus frequency list rather
// than frequency numbers already attached to each term.
func (b *Builder) ImportTerm(d TermData, freq *freqtable.Table) error {
	if freq != nil {
		d.Frequency = uint32(freq.Get(d.Expression))
	}
	return b.PushTerm(d)
}

// ImportKanji looks up d's character in freq to fill in Frequency, then
// pushes the kanji as PushKanji would.
func (b *Builder) ImportKanji(d KanjiData, freq *freqtable.Table) error {
	if freq != nil {
		d.Frequency = uint32(freq.Get(string(d.Character)))
	}
	return b.PushKanji(d)
}

// FreqEntry is one row of a corpus frequency side table: a term
// expression or kanji character mapped to an occurrence count.
type FreqEntry struct {
	Key   string
	Count uint64
}

// MergeTermFrequencies sets Frequency on every already-pushed term whose
// expression matches a key in table, overwriting any value set at push
// time. It must run before Write, since relevance sort reads Frequency
// to order terms; calling it after Write fails with ErrSealed.
func (b *Builder) MergeTermFrequencies(table []FreqEntry) error {
	if b.sealed {
		return ErrSealed
	}
	byExpr := make(map[string]uint64, len(table))
	for _, e := range table {
		byExpr[e.Key] = e.Count
	}
	for i := range b.terms {
		if count, ok := byExpr[b.strOf(b.terms[i].expression)]; ok {
			b.terms[i].frequency = uint32(count)
		}
	}
	return nil
}

// MergeKanjiFrequencies sets Frequency on every already-pushed kanji
// entry whose character matches a key in table. Must run before Write,
// for the same reason as MergeTermFrequencies.
func (b *Builder) MergeKanjiFrequencies(table []FreqEntry) error {
	if b.sealed {
		return ErrSealed
	}
	byChar := make(map[string]uint64, len(table))
	for _, e := range table {
		byChar[e.Key] = e.Count
	}
	for i := range b.kanji {
		if count, ok := byChar[string(b.kanji[i].character)]; ok {
			b.kanji[i].frequency = uint32(count)
		}
	}
	return nil
}
