package context

import (
	"testing"

	"github.com/doctree-search/doctree/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCfg() config.ContextAnalyzerConfig {
	return config.ContextAnalyzerConfig{
		MaxTerms: 15, MinWordLength: 3, MaxWordLength: 40,
		SampleSize: 4000, Algorithm: "textrank",
	}
}

func TestExtractPathTerms_FilenameOutweighsDir(t *testing.T) {
	terms := extractPathTerms("guides/auth/oauth-setup.md", testCfg())
	require.NotEmpty(t, terms)

	var filenameTerm, dirTerm *candidateTerm
	for i := range terms {
		if terms[i].Term == "oauth" {
			filenameTerm = &terms[i]
		}
		if terms[i].Term == "guides" {
			dirTerm = &terms[i]
		}
	}
	require.NotNil(t, filenameTerm)
	require.NotNil(t, dirTerm)
	assert.Equal(t, SourcePathFilename, filenameTerm.Source)
	assert.Equal(t, SourcePathDir, dirTerm.Source)
	assert.Greater(t, filenameTerm.Weight, dirTerm.Weight)
}

func TestExtractPathTerms_DropsStopwordsAndShortTokens(t *testing.T) {
	terms := extractPathTerms("docs/a/the-of.md", testCfg())
	for _, tm := range terms {
		assert.NotEqual(t, "a", tm.Term)
		assert.NotEqual(t, "the", tm.Term)
		assert.NotEqual(t, "of", tm.Term)
		assert.NotEqual(t, "docs", tm.Term)
	}
}

func TestExtractPathTerms_EmptyPath(t *testing.T) {
	assert.Empty(t, extractPathTerms("", testCfg()))
}

func TestSplitPathSegment(t *testing.T) {
	assert.Equal(t, []string{"oauth", "setup"}, splitPathSegment("oauth-setup"))
	assert.Equal(t, []string{"my", "file", "md"}, splitPathSegment("my_file.md"))
}
