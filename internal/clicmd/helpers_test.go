package clicmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doctree-search/doctree/internal/config"
)

func TestPreview_TruncatesLongBodies(t *testing.T) {
	long := ""
	for i := 0; i < 200; i++ {
		long += "x"
	}
	got := preview(long)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len(got), 164)
}

func TestPreview_CollapsesWhitespace(t *testing.T) {
	got := preview("one\n\ttwo   three")
	assert.Equal(t, "one two three", got)
}

func TestManifestTrees_CarriesGlobsAcrossFromConfig(t *testing.T) {
	cfg := &config.Config{Trees: []config.Tree{
		{Name: "docs", Path: "docs", Include: []string{"**/*.md"}, Exclude: []string{".git/**"}},
	}}
	trees := manifestTrees(cfg)
	assert.Len(t, trees, 1)
	assert.Equal(t, "docs", trees[0].Name)
	assert.Equal(t, []string{"**/*.md"}, trees[0].Include)
}

func TestConfigFingerprint_ChangesWithTreeGlobs(t *testing.T) {
	a := &config.Config{Trees: []config.Tree{{Name: "docs", Path: "docs", Include: []string{"**/*.md"}}}}
	b := &config.Config{Trees: []config.Tree{{Name: "docs", Path: "docs", Include: []string{"**/*.txt"}}}}

	fa, err := configFingerprint(a)
	assert.NoError(t, err)
	fb, err := configFingerprint(b)
	assert.NoError(t, err)
	assert.NotEqual(t, fa, fb)
}
