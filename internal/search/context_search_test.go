package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctree-search/doctree/internal/config"
	"github.com/doctree-search/doctree/internal/pipeline"
	"github.com/doctree-search/doctree/internal/rules"
)

func TestContextSearch_NoFilesErrors(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	_, err := f.ContextSearch(nil, nil, pipeline.SearchParams{})
	assert.Error(t, err)
}

func TestContextSearch_WithoutRulesEngine(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	files := []ContextFile{{Path: "guides/oauth-setup.md", Content: []byte("# OAuth Setup\n\nConfigure retry and backoff for OAuth clients.\n")}}

	outcome, err := f.ContextSearch(files, nil, pipeline.SearchParams{})
	require.NoError(t, err)
	assert.NotNil(t, outcome)
}

func TestContextSearch_InjectsRuleTermsAndOverrides(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	engine, err := rules.NewEngine([]config.ContextRule{
		{Glob: "guides/**", InjectTerms: []string{"policies"}, Overrides: &config.ScoringConfig{Limit: 3}},
	})
	require.NoError(t, err)

	files := []ContextFile{{Path: "guides/oauth-setup.md", Content: []byte("# OAuth Setup\n\nConfigure retry and backoff for OAuth clients.\n")}}
	outcome, err := f.ContextSearch(files, engine, pipeline.SearchParams{})
	require.NoError(t, err)
	assert.NotNil(t, outcome)
}

func TestApplyOverrides_OnlySetsNonZeroFields(t *testing.T) {
	params := pipeline.SearchParams{Limit: 15, CutoffRatio: 0.3}
	out := applyOverrides(params, &config.ScoringConfig{Limit: 5})
	assert.Equal(t, 5, out.Limit)
	assert.Equal(t, 0.3, out.CutoffRatio)
}

func TestAppendUnique(t *testing.T) {
	out := appendUnique([]string{"a", "b"}, []string{"b", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, out)
}
