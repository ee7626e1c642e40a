package rules

import (
	"testing"

	"github.com/doctree-search/doctree/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectedQuery_NilWhenEmpty(t *testing.T) {
	assert.Nil(t, InjectedQuery(nil))
}

func TestInjectedQuery_SingleTermUnwrapped(t *testing.T) {
	q := InjectedQuery([]string{"rest"})
	boost, ok := q.(*query.Boost)
	require.True(t, ok)
	assert.Equal(t, injectedTermBoost, boost.Factor)
	term := boost.Inner.(*query.Term)
	assert.Equal(t, "rest", term.Text)
}

func TestInjectedQuery_MultipleTermsOred(t *testing.T) {
	q := InjectedQuery([]string{"rest", "graphql"})
	or, ok := q.(*query.Or)
	require.True(t, ok)
	assert.Len(t, or.Clauses, 2)
}

func TestCombineWithContextQuery(t *testing.T) {
	ctxQuery := &query.Term{Text: "auth"}
	injected := &query.Term{Text: "rest"}

	assert.Equal(t, injected, CombineWithContextQuery(nil, injected))
	assert.Equal(t, ctxQuery, CombineWithContextQuery(ctxQuery, nil))
	assert.Nil(t, CombineWithContextQuery(nil, nil))

	combined := CombineWithContextQuery(ctxQuery, injected)
	or, ok := combined.(*query.Or)
	require.True(t, ok)
	assert.Len(t, or.Clauses, 2)
}
