package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscover_MatchesIncludeAndSkipsExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "# A")
	writeFile(t, filepath.Join(root, "notes", "b.md"), "# B")
	writeFile(t, filepath.Join(root, "vendor", "c.md"), "# C")
	writeFile(t, filepath.Join(root, "image.png"), "binary")

	files, err := Discover([]Tree{{
		Name:    "docs",
		Path:    root,
		Include: []string{"**/*.md"},
		Exclude: []string{"vendor/**"},
	}})
	require.NoError(t, err)

	rels := make([]string, len(files))
	for i, f := range files {
		rels[i] = f.RelPath
		require.Equal(t, "docs", f.Tree)
	}
	require.ElementsMatch(t, []string{"a.md", "notes/b.md"}, rels)
}

func TestDiscover_MultipleTrees(t *testing.T) {
	docsRoot := t.TempDir()
	apiRoot := t.TempDir()
	writeFile(t, filepath.Join(docsRoot, "a.md"), "# A")
	writeFile(t, filepath.Join(apiRoot, "a.md"), "# A")

	files, err := Discover([]Tree{
		{Name: "docs", Path: docsRoot, Include: []string{"**/*.md"}},
		{Name: "api", Path: apiRoot, Include: []string{"**/*.md"}},
	})
	require.NoError(t, err)
	require.Len(t, files, 2)

	trees := map[string]bool{}
	for _, f := range files {
		trees[f.Tree] = true
	}
	require.True(t, trees["docs"])
	require.True(t, trees["api"])
}

func TestDiscover_MissingTreePathIsSkippedNotAnError(t *testing.T) {
	files, err := Discover([]Tree{{
		Name:    "docs",
		Path:    filepath.Join(t.TempDir(), "does-not-exist"),
		Include: []string{"**/*.md"},
	}})
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestDiscover_ExcludesDirectoryItselfViaSlashSlashSuffix(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.md"), "# X")
	writeFile(t, filepath.Join(root, "keep.md"), "# keep")

	files, err := Discover([]Tree{{
		Name:    "docs",
		Path:    root,
		Include: []string{"**/*.md"},
		Exclude: []string{"node_modules/**"},
	}})
	require.NoError(t, err)

	rels := make([]string, len(files))
	for i, f := range files {
		rels[i] = f.RelPath
	}
	require.ElementsMatch(t, []string{"keep.md"}, rels)
}
