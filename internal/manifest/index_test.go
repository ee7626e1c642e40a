package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/doctree-search/doctree/internal/docindex"
)

func newIndexer(t *testing.T, root string) (*Indexer, string) {
	t.Helper()
	indexDir := t.TempDir()
	idx, err := docindex.Open(filepath.Join(indexDir, "bleve"))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	ix := &Indexer{
		Dir:   indexDir,
		Trees: []Tree{{Name: "docs", Path: root, Include: []string{"**/*.md"}}},
		Index: idx,
	}
	return ix, indexDir
}

func TestRun_IndexesAddedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "guide.md"), "# Guide\n\nsome body content about rust.\n")

	ix, _ := newIndexer(t, root)
	stats, err := ix.Run(false, []byte("config-v1"))
	require.NoError(t, err)
	require.Equal(t, 1, stats.FilesAdded)
	require.Equal(t, 1, stats.ChunksIndexed)

	count, err := ix.Index.DocCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestRun_IsIdempotentOnSecondRunWithNoChanges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "guide.md"), "# Guide\n\nsome body content.\n")

	ix, _ := newIndexer(t, root)
	_, err := ix.Run(false, []byte("config-v1"))
	require.NoError(t, err)

	stats, err := ix.Run(false, []byte("config-v1"))
	require.NoError(t, err)
	require.Equal(t, 0, stats.FilesAdded)
	require.Equal(t, 0, stats.FilesModified)
	require.Equal(t, 0, stats.FilesRemoved)
}

func TestRun_ReindexesModifiedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "guide.md")
	writeFile(t, path, "# Guide\n\noriginal body.\n")

	ix, _ := newIndexer(t, root)
	_, err := ix.Run(false, []byte("config-v1"))
	require.NoError(t, err)

	// Bump mtime and change size so the diff sees it as modified.
	require.NoError(t, os.WriteFile(path, []byte("# Guide\n\nrewritten and longer body content.\n"), 0644))
	future := fileTimeAfter(t, path)
	require.NoError(t, os.Chtimes(path, future, future))

	stats, err := ix.Run(false, []byte("config-v1"))
	require.NoError(t, err)
	require.Equal(t, 1, stats.FilesModified)

	count, err := ix.Index.DocCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), count, "the rewritten file replaces its own chunks rather than duplicating")
}

func TestRun_RemovesDeletedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "guide.md")
	writeFile(t, path, "# Guide\n\nbody.\n")

	ix, _ := newIndexer(t, root)
	_, err := ix.Run(false, []byte("config-v1"))
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	stats, err := ix.Run(false, []byte("config-v1"))
	require.NoError(t, err)
	require.Equal(t, 1, stats.FilesRemoved)

	count, err := ix.Index.DocCount()
	require.NoError(t, err)
	require.Equal(t, uint64(0), count)
}

func TestRun_ConfigChangeForcesFullReindex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "guide.md"), "# Guide\n\nbody.\n")

	ix, _ := newIndexer(t, root)
	_, err := ix.Run(false, []byte("config-v1"))
	require.NoError(t, err)

	stats, err := ix.Run(false, []byte("config-v2"))
	require.NoError(t, err)
	require.Equal(t, 1, stats.FilesAdded, "a config hash change forces every discovered file to be treated as added")
}

func TestRun_HeadingOnlyFileDoesNotFailBatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "good.md"), "# Good\n\nbody text.\n")
	// A heading with no body still parses fine (chunktree drops the
	// empty-span heading and keeps its line in the root chunk); this
	// asserts such a file doesn't abort the batch.
	writeFile(t, filepath.Join(root, "empty.md"), "# Empty\n")

	ix, _ := newIndexer(t, root)
	stats, err := ix.Run(false, []byte("config-v1"))
	require.NoError(t, err)
	require.Empty(t, stats.ParseErrors)
	require.Equal(t, 2, stats.FilesAdded)
}

func fileTimeAfter(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime().Add(2 * time.Second)
}
