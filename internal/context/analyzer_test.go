package context

import (
	"testing"

	"github.com/doctree-search/doctree/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_ProducesRankedTermsAndQuery(t *testing.T) {
	idf := fakeIDF{
		"oauth": 3.0, "setup": 2.0, "authentication": 2.5, "retry": 1.2,
		"configuration": 1.0, "flows": 1.0, "backoff": 1.5,
	}
	a := NewAnalyzer(testCfg(), idf)

	content := []byte("# Authentication\n\nRetry and backoff configuration for OAuth setup flows.\n")
	result, err := a.Analyze("guides/auth/oauth-setup.md", content, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Ranked)
	assert.NotNil(t, result.Query)
}

func TestAnalyze_NoIDFSourceErrors(t *testing.T) {
	a := NewAnalyzer(testCfg(), nil)
	_, err := a.Analyze("a.md", []byte("text"), nil)
	assert.Error(t, err)
}

func TestAnalyzeFiles_NoFilesErrors(t *testing.T) {
	a := NewAnalyzer(testCfg(), fakeIDF{})
	_, err := a.AnalyzeFiles(nil, nil)
	assert.Error(t, err)
}

func TestAnalyze_AllTermsUnknownYieldsNilQuery(t *testing.T) {
	a := NewAnalyzer(testCfg(), fakeIDF{})
	result, err := a.Analyze("guides/setup.md", []byte("# Setup\n\nwords here"), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Ranked)
	assert.Nil(t, result.Query)
}

func TestAnalyze_RespectsMaxTermsConfig(t *testing.T) {
	cfg := testCfg()
	cfg.MaxTerms = 1
	idf := fakeIDF{"alpha": 5.0, "beta": 4.0, "gamma": 3.0}
	a := NewAnalyzer(cfg, idf)

	result, err := a.Analyze("docs/page.md", []byte("alpha beta gamma alpha beta gamma"), nil)
	require.NoError(t, err)
	require.Len(t, result.Ranked, 1)
	if boost, ok := result.Query.(*query.Boost); ok {
		term := boost.Inner.(*query.Term)
		assert.Equal(t, result.Ranked[0].Term, term.Text)
	}
}

func TestExtExt(t *testing.T) {
	assert.Equal(t, ".md", extExt("guides/auth/setup.md"))
	assert.Equal(t, "", extExt("guides/auth/setup"))
	assert.Equal(t, "", extExt(""))
}
