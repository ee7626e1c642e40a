package rules

import (
	"testing"

	"github.com/doctree-search/doctree/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_RejectsEmptyGlob(t *testing.T) {
	_, err := NewEngine([]config.ContextRule{{Glob: ""}})
	assert.Error(t, err)
}

func TestNewEngine_RejectsInvalidGlob(t *testing.T) {
	_, err := NewEngine([]config.ContextRule{{Glob: "["}})
	assert.Error(t, err)
}

func TestMatch_UnionsAcrossMatchingRules(t *testing.T) {
	engine, err := NewEngine([]config.ContextRule{
		{Glob: "api/**", InjectTerms: []string{"rest"}, Trees: []string{"api-docs"}},
		{Glob: "**/*.md", InjectTerms: []string{"markdown"}, PinInclude: []string{"glossary.md"}},
	})
	require.NoError(t, err)

	matched := engine.Match("api/auth.md")
	assert.ElementsMatch(t, []string{"rest", "markdown"}, matched.InjectTerms)
	assert.Equal(t, []string{"api-docs"}, matched.Trees)
	assert.Equal(t, []string{"glossary.md"}, matched.PinInclude)
}

func TestMatch_NoRuleMatchesIsEmpty(t *testing.T) {
	engine, err := NewEngine([]config.ContextRule{{Glob: "api/**", InjectTerms: []string{"rest"}}})
	require.NoError(t, err)

	matched := engine.Match("guides/intro.md")
	assert.Empty(t, matched.InjectTerms)
	assert.False(t, matched.HasOverrides())
}

func TestMatch_DedupesRepeatedTermsAcrossRules(t *testing.T) {
	engine, err := NewEngine([]config.ContextRule{
		{Glob: "**/*.md", InjectTerms: []string{"docs"}},
		{Glob: "guides/**", InjectTerms: []string{"docs", "howto"}},
	})
	require.NoError(t, err)

	matched := engine.Match("guides/intro.md")
	assert.ElementsMatch(t, []string{"docs", "howto"}, matched.InjectTerms)
}

func TestMatch_MergesOverridesLaterRuleWins(t *testing.T) {
	engine, err := NewEngine([]config.ContextRule{
		{Glob: "**/*.md", Overrides: &config.ScoringConfig{Limit: 10, CutoffRatio: 0.2}},
		{Glob: "guides/**", Overrides: &config.ScoringConfig{Limit: 25}},
	})
	require.NoError(t, err)

	matched := engine.Match("guides/intro.md")
	require.True(t, matched.HasOverrides())
	assert.Equal(t, 25, matched.Overrides.Limit)
	assert.Equal(t, 0.2, matched.Overrides.CutoffRatio)
}

func TestEffectiveTrees_UnionsRuleAndCLITrees(t *testing.T) {
	matched := Matched{Trees: []string{"api-docs"}}
	out := EffectiveTrees(matched, []string{"guides", "api-docs"})
	assert.Equal(t, []string{"api-docs", "guides"}, out)
}

func TestEffectiveTrees_EmptyMeansAllTrees(t *testing.T) {
	assert.Empty(t, EffectiveTrees(Matched{}, nil))
}
