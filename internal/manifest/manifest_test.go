package manifest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompare_ClassifiesAddedModifiedRemoved(t *testing.T) {
	m := Manifest{
		"/root/a.md": {Tree: "docs", Path: "a.md", MTimeSecs: 1000, SizeBytes: 10},
		"/root/b.md": {Tree: "docs", Path: "b.md", MTimeSecs: 2000, SizeBytes: 20},
	}

	discovered := []DiscoveredFile{
		// a.md unchanged
		{Tree: "docs", AbsPath: "/root/a.md", RelPath: "a.md", MTime: time.Unix(1000, 0), Size: 10},
		// b.md modified (size changed)
		{Tree: "docs", AbsPath: "/root/b.md", RelPath: "b.md", MTime: time.Unix(2000, 0), Size: 99},
		// c.md is new
		{Tree: "docs", AbsPath: "/root/c.md", RelPath: "c.md", MTime: time.Unix(3000, 0), Size: 5},
	}

	diff := Compare(m, discovered)

	addedPaths := relPaths(diff.Added)
	modifiedPaths := relPaths(diff.Modified)
	require.ElementsMatch(t, []string{"c.md"}, addedPaths)
	require.ElementsMatch(t, []string{"b.md"}, modifiedPaths)
	require.NotContains(t, addedPaths, "a.md")
	require.NotContains(t, modifiedPaths, "a.md")
	require.Empty(t, diff.Removed)
}

func relPaths(files []DiscoveredFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestCompare_DetectsRemoved(t *testing.T) {
	m := Manifest{
		"/root/a.md": {Tree: "docs", Path: "a.md", MTimeSecs: 1000, SizeBytes: 10},
	}
	diff := Compare(m, nil)
	require.ElementsMatch(t, []string{"/root/a.md"}, diff.Removed)
}

func TestCompare_IsIdempotentWhenNothingChanged(t *testing.T) {
	m := Manifest{
		"/root/a.md": {Tree: "docs", Path: "a.md", MTimeSecs: 1000, SizeBytes: 10},
	}
	discovered := []DiscoveredFile{
		{Tree: "docs", AbsPath: "/root/a.md", RelPath: "a.md", MTime: time.Unix(1000, 0), Size: 10},
	}
	diff := Compare(m, discovered)
	require.Empty(t, diff.Added)
	require.Empty(t, diff.Modified)
	require.Empty(t, diff.Removed)
}

func TestSaveLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	m := Manifest{
		"/root/a.md": {Tree: "docs", Path: "a.md", MTimeSecs: 1000, SizeBytes: 10},
	}
	require.NoError(t, Save(dir, m))

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, m, loaded)
}

func TestLoad_MissingFileReturnsEmptyManifest(t *testing.T) {
	dir := t.TempDir()
	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestSave_IsAtomic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, Manifest{"/x": {Tree: "docs"}}))

	entries, err := filepath.Glob(filepath.Join(dir, ".manifest-*.tmp"))
	require.NoError(t, err)
	require.Empty(t, entries, "no leftover temp file after a successful save")
}

func TestConfigHash_ChangesWithContent(t *testing.T) {
	h1 := ConfigHash([]byte("a"))
	h2 := ConfigHash([]byte("b"))
	require.NotEqual(t, h1, h2)
	require.Equal(t, h1, ConfigHash([]byte("a")))
}

func TestConfigHash_SaveLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveConfigHash(dir, "deadbeef"))

	loaded, err := LoadConfigHash(dir)
	require.NoError(t, err)
	require.Equal(t, "deadbeef", loaded)
}

func TestLoadConfigHash_MissingReturnsEmptyString(t *testing.T) {
	dir := t.TempDir()
	loaded, err := LoadConfigHash(dir)
	require.NoError(t, err)
	require.Equal(t, "", loaded)
}
