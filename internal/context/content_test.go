package context

import (
	"testing"

	"github.com/doctree-search/doctree/internal/chunktree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractContentTerms_MarkdownStructuralWeighting(t *testing.T) {
	md := []byte("# Authentication\n\nOverview text about authentication flows.\n\n## OAuth Setup\n\nDetails about oauth configuration.\n")
	terms := extractContentTerms(chunktree.FileTypeMarkdown, md, testCfg())
	require.NotEmpty(t, terms)

	bySource := make(map[string]Source)
	for _, tm := range terms {
		bySource[tm.Term] = tm.Source
	}
	assert.Equal(t, SourceH1, bySource["authentication"])
	assert.Equal(t, SourceH2H3, bySource["oauth"])
	assert.Equal(t, SourceH2H3, bySource["setup"])
	// body text under the H1 inherits the H1 tier, not the floor body weight
	assert.Equal(t, SourceH1, bySource["overview"])
}

func TestExtractContentTerms_PlainTextIsAllBody(t *testing.T) {
	terms := extractContentTerms(chunktree.FileTypeText, []byte("plain configuration notes about retries"), testCfg())
	require.NotEmpty(t, terms)
	for _, tm := range terms {
		assert.Equal(t, SourceBody, tm.Source)
	}
}

func TestExtractContentTerms_TruncatesToSampleSize(t *testing.T) {
	cfg := testCfg()
	cfg.SampleSize = 10
	padding := make([]byte, 20)
	for i := range padding {
		padding[i] = ' '
	}
	content := append(padding, []byte("sentinelword")...)
	terms := extractContentTerms(chunktree.FileTypeText, content, cfg)
	for _, tm := range terms {
		assert.NotEqual(t, "sentinelword", tm.Term)
	}
}

func TestTermsFromSegment_CountsFrequency(t *testing.T) {
	terms := termsFromSegment("retry retry retry backoff", SourceBody, testCfg())
	var retry *candidateTerm
	for i := range terms {
		if terms[i].Term == "retry" {
			retry = &terms[i]
		}
	}
	require.NotNil(t, retry)
	assert.Equal(t, 3, retry.Frequency)
}
