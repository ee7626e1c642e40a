package context

import (
	"testing"

	"github.com/doctree-search/doctree/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery_EmptyRankedReturnsNil(t *testing.T) {
	assert.Nil(t, BuildQuery(nil, 15))
}

func TestBuildQuery_SingleTermUnwrapped(t *testing.T) {
	ranked := []RankedTerm{{WeightedTerm: WeightedTerm{Term: "retry"}, Score: 1.0}}
	q := BuildQuery(ranked, 15)
	boost, ok := q.(*query.Boost)
	require.True(t, ok)
	term, ok := boost.Inner.(*query.Term)
	require.True(t, ok)
	assert.Equal(t, "retry", term.Text)
}

func TestBuildQuery_MultipleTermsOred(t *testing.T) {
	ranked := []RankedTerm{
		{WeightedTerm: WeightedTerm{Term: "retry"}, Score: 2.0},
		{WeightedTerm: WeightedTerm{Term: "backoff"}, Score: 1.0},
	}
	q := BuildQuery(ranked, 15)
	or, ok := q.(*query.Or)
	require.True(t, ok)
	assert.Len(t, or.Clauses, 2)
}

func TestBuildQuery_RespectsMaxTerms(t *testing.T) {
	ranked := []RankedTerm{
		{WeightedTerm: WeightedTerm{Term: "a"}, Score: 3.0},
		{WeightedTerm: WeightedTerm{Term: "b"}, Score: 2.0},
		{WeightedTerm: WeightedTerm{Term: "c"}, Score: 1.0},
	}
	q := BuildQuery(ranked, 1)
	boost, ok := q.(*query.Boost)
	require.True(t, ok)
	term := boost.Inner.(*query.Term)
	assert.Equal(t, "a", term.Text)
}

type fakeProber struct {
	known map[string]bool
}

func (f fakeProber) PhraseExists(phrase string, trees []string) (bool, error) {
	return f.known[phrase], nil
}

func TestBuildQueryWithPhrases_AcceptsCompatibleBigram(t *testing.T) {
	ranked := []RankedTerm{
		{WeightedTerm: WeightedTerm{Term: "oauth", Source: SourceH1}, Score: 3.0},
		{WeightedTerm: WeightedTerm{Term: "setup", Source: SourceH1}, Score: 2.0},
	}
	prober := fakeProber{known: map[string]bool{"oauth setup": true}}

	q := BuildQueryWithPhrases(ranked, 15, prober, nil)
	boost, ok := q.(*query.Boost)
	require.True(t, ok)
	phrase, ok := boost.Inner.(*query.Phrase)
	require.True(t, ok)
	assert.Equal(t, []string{"oauth", "setup"}, phrase.Words)
}

func TestBuildQueryWithPhrases_NeverCombinesPathTerms(t *testing.T) {
	ranked := []RankedTerm{
		{WeightedTerm: WeightedTerm{Term: "oauth", Source: SourcePathFilename}, Score: 3.0},
		{WeightedTerm: WeightedTerm{Term: "setup", Source: SourcePathFilename}, Score: 2.0},
	}
	prober := fakeProber{known: map[string]bool{"oauth setup": true}}

	q := BuildQueryWithPhrases(ranked, 15, prober, nil)
	or, ok := q.(*query.Or)
	require.True(t, ok)
	for _, c := range or.Clauses {
		boost := c.(*query.Boost)
		_, isTerm := boost.Inner.(*query.Term)
		assert.True(t, isTerm)
	}
}

func TestBuildQueryWithPhrases_NilProberFallsBackToBuildQuery(t *testing.T) {
	ranked := []RankedTerm{{WeightedTerm: WeightedTerm{Term: "retry"}, Score: 1.0}}
	q := BuildQueryWithPhrases(ranked, 15, nil, nil)
	_, ok := q.(*query.Boost)
	assert.True(t, ok)
}
