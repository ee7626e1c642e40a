package search

import (
	"testing"

	"github.com/blevesearch/bleve/v2"
	"github.com/stretchr/testify/require"

	"github.com/doctree-search/doctree/internal/config"
	"github.com/doctree-search/doctree/internal/docindex"
	"github.com/doctree-search/doctree/internal/pipeline"
)

func newTestFacade(t *testing.T, records []*docindex.Record) *Facade {
	t.Helper()
	memIdx, err := bleve.NewMemOnly(docindex.BuildMapping())
	require.NoError(t, err)
	t.Cleanup(func() { _ = memIdx.Close() })

	idx := &docindex.Index{Index: memIdx}
	require.NoError(t, idx.AddDocuments(records))

	cfg := config.Default()
	return New(idx, cfg)
}

func sampleRecords() []*docindex.Record {
	return []*docindex.Record{
		{
			ID: "docs:auth.md", DocID: "docs:auth.md", Tree: "docs", Path: "auth.md",
			Title: "Authentication", Body: "Authentication flows cover retry and backoff configuration for OAuth.",
			Breadcrumb: "> Authentication", Depth: 0, Position: 0, ByteStart: 0, ByteEnd: 80, SiblingCount: 1,
		},
		{
			ID: "docs:auth.md#oauth-setup", DocID: "docs:auth.md", ParentID: "docs:auth.md", Tree: "docs", Path: "auth.md",
			Title: "OAuth Setup", Body: "Configure the OAuth client id and secret before enabling retries.",
			Breadcrumb: "> Authentication › OAuth Setup", Depth: 1, Position: 1, ByteStart: 80, ByteEnd: 160, SiblingCount: 1,
		},
		{
			ID: "docs:retries.md", DocID: "docs:retries.md", Tree: "docs", Path: "retries.md",
			Title: "Retry Policies", Body: "Backoff and retry policies for flaky network calls.",
			Breadcrumb: "> Retry Policies", Depth: 0, Position: 0, ByteStart: 0, ByteEnd: 60, SiblingCount: 1,
		},
	}
}

func TestFacade_SearchAggregated(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	outcome, err := f.SearchAggregated("oauth", pipeline.SearchParams{})
	require.NoError(t, err)
	require.NotEmpty(t, outcome.Results)
}

func TestFacade_GetByID(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	rec, ok, err := f.GetByID("docs:retries.md")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Retry Policies", rec.Title)
}

func TestFacade_GetByID_Missing(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	_, ok, err := f.GetByID("docs:nope.md")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFacade_GetByPath(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	recs, err := f.GetByPath("docs", "auth.md")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, 0, recs[0].Position)
	require.Equal(t, 1, recs[1].Position)
}

func TestFacade_ListAll(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	recs, err := f.ListAll("docs")
	require.NoError(t, err)
	require.Len(t, recs, 3)
}

func TestFacade_NumDocs(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	n, err := f.NumDocs()
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)
}

func TestFacade_TermIDF_UnknownTermIsAbsent(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	_, ok := f.TermIDF("zzzznonexistent", nil)
	require.False(t, ok)
}

func TestFacade_TermIDF_KnownTermPresent(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	idf, ok := f.IDF("retry", nil)
	require.True(t, ok)
	require.Greater(t, idf, 0.0)
}

func TestFacade_PhraseExists(t *testing.T) {
	f := newTestFacade(t, sampleRecords())
	ok, err := f.PhraseExists("oauth client", nil)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.PhraseExists("client oauth", nil)
	require.NoError(t, err)
	require.False(t, ok)
}
