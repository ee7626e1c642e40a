// Package search implements C10, the search facade of spec.md §4.10:
// the single entry point coordinating C3 (query parsing), C4 (query
// compilation), C5 (the index), and C7 (the retrieval pipeline), plus
// MoreLikeThis and the supplementary read operations.
package search

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	bquery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/doctree-search/doctree/internal/compile"
	"github.com/doctree-search/doctree/internal/config"
	"github.com/doctree-search/doctree/internal/docindex"
	"github.com/doctree-search/doctree/internal/pipeline"
	"github.com/doctree-search/doctree/internal/query"
)

// Facade is C10: a thin coordinator over an open index and the
// configuration governing compilation and pipeline defaults, grounded
// on exact_searcher.go's ExactSearcher interface shape (context-scoped
// methods returning typed results, a small concrete implementation) and
// internal/indexer/indexer.go's top-level Indexer style (concrete
// struct, NewX constructor).
type Facade struct {
	Index  *docindex.Index
	Config *config.Config
}

// New constructs a Facade over an already-open index.
func New(idx *docindex.Index, cfg *config.Config) *Facade {
	return &Facade{Index: idx, Config: cfg}
}

func (f *Facade) compileConfig() compile.Config {
	return compile.Config{
		FieldBoosts:   f.Config.Search.FieldBoosts,
		FuzzyDistance: f.Config.Search.FuzzyDistance,
	}
}

// defaultParams merges the configured scoring/search defaults into
// params, filling any zero-valued field so a caller can pass a
// partially-populated SearchParams.
func (f *Facade) defaultParams(params pipeline.SearchParams) pipeline.SearchParams {
	if params.Limit <= 0 {
		params.Limit = f.Config.Scoring.Limit
	}
	if params.AggregationPoolSize <= 0 {
		params.AggregationPoolSize = f.Config.Scoring.AggregationPoolSize
	}
	if params.CutoffRatio <= 0 {
		params.CutoffRatio = f.Config.Scoring.CutoffRatio
	}
	if params.AggregationThreshold <= 0 {
		params.AggregationThreshold = f.Config.Scoring.AggregationThreshold
	}
	if params.LocalBoost <= 0 {
		params.LocalBoost = f.Config.Search.LocalBoost
	}
	return params
}

// lookup resolves a candidate id to its SearchCandidate for phase 4's
// parent synthesis, backed by GetByID.
func (f *Facade) lookup(id string) (*pipeline.SearchCandidate, bool) {
	rec, ok, err := f.GetByID(id)
	if err != nil || !ok {
		return nil, false
	}
	return candidateFromRecord(rec), true
}

func candidateFromRecord(r *docindex.Record) *pipeline.SearchCandidate {
	return &pipeline.SearchCandidate{
		ID: r.ID, DocID: r.DocID, ParentID: r.ParentID, Title: r.Title,
		Tags: r.Tags, Tree: r.Tree, Path: r.Path, PathComponents: r.PathComponents,
		Body: r.Body, Breadcrumb: r.Breadcrumb, Depth: r.Depth, Position: r.Position,
		ByteStart: r.ByteStart, ByteEnd: r.ByteEnd, SiblingCount: r.SiblingCount,
	}
}

// SearchAggregated implements spec.md §4.10: "parse + compile + run."
func (f *Facade) SearchAggregated(queryStr string, params pipeline.SearchParams) (*pipeline.Outcome, error) {
	expr, err := query.Parse(queryStr)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return f.SearchAggregatedExpr(expr, params)
}

// SearchAggregatedExpr implements spec.md §4.10: "compile + run (used by
// context search)."
func (f *Facade) SearchAggregatedExpr(expr query.Expr, params pipeline.SearchParams) (*pipeline.Outcome, error) {
	compiled, err := compile.Compile(expr, f.compileConfig())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	params = f.defaultParams(params)
	return pipeline.Run(f.Index, compiled, params, f.Config.GlobalTrees(), f.lookup)
}

// NumDocs returns the index's total document count.
func (f *Facade) NumDocs() (uint64, error) {
	return f.Index.DocCount()
}

// GetByID fetches a single chunk record by its id.
func (f *Facade) GetByID(id string) (*docindex.Record, bool, error) {
	tq := bleve.NewTermQuery(id)
	tq.SetField("id")
	req := bleve.NewSearchRequestOptions(tq, 1, 0, false)
	req.Fields = storedFields
	result, err := f.Index.Search(req)
	if err != nil {
		return nil, false, fmt.Errorf("get by id %s: %w", id, err)
	}
	if len(result.Hits) == 0 {
		return nil, false, nil
	}
	return recordFromFields(result.Hits[0].ID, result.Hits[0].Fields), true, nil
}

// GetByPath returns every chunk belonging to {tree}:{path}, in position
// order.
func (f *Facade) GetByPath(tree, path string) ([]*docindex.Record, error) {
	docID := tree + ":" + path
	tq := bleve.NewTermQuery(docID)
	tq.SetField("doc_id")
	req := bleve.NewSearchRequestOptions(tq, maxChunksPerDocument, 0, false)
	req.Fields = storedFields
	result, err := f.Index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("get by path %s: %w", docID, err)
	}
	return sortedRecords(result), nil
}

// ListAll returns every chunk in the given tree (or every chunk across
// all trees if tree is "").
func (f *Facade) ListAll(tree string) ([]*docindex.Record, error) {
	var q bquery.Query = bleve.NewMatchAllQuery()
	if tree != "" {
		tq := bleve.NewTermQuery(tree)
		tq.SetField("tree")
		q = tq
	}
	count, err := f.Index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("doc count: %w", err)
	}
	req := bleve.NewSearchRequestOptions(q, int(count), 0, false)
	req.Fields = storedFields
	result, err := f.Index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("list all: %w", err)
	}
	return sortedRecords(result), nil
}

// ReadFullContent implements spec.md §4.10's "read the original source
// file span (for verbose rendering of a hit's full content)."
// treeRoot is the absolute path of the tree the hit's path is relative to.
func (f *Facade) ReadFullContent(treeRoot, path string, byteStart, byteEnd int) (string, error) {
	full := treeRoot + string(os.PathSeparator) + path
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", full, err)
	}
	if byteStart < 0 {
		byteStart = 0
	}
	if byteEnd > len(data) || byteEnd <= 0 {
		byteEnd = len(data)
	}
	if byteStart >= byteEnd {
		return "", nil
	}
	return string(data[byteStart:byteEnd]), nil
}

const maxChunksPerDocument = 100000

var storedFields = []string{
	"id", "doc_id", "parent_id", "title", "tags", "tree", "path",
	"path_components", "body", "breadcrumb", "depth", "position",
	"byte_start", "byte_end", "sibling_count", "mtime",
}

func recordFromFields(id string, fields map[string]interface{}) *docindex.Record {
	return &docindex.Record{
		ID:             id,
		DocID:          stringField(fields, "doc_id"),
		ParentID:       stringField(fields, "parent_id"),
		Title:          stringField(fields, "title"),
		Tags:           stringSliceField(fields, "tags"),
		Path:           stringField(fields, "path"),
		PathComponents: stringSliceField(fields, "path_components"),
		Tree:           stringField(fields, "tree"),
		Body:           stringField(fields, "body"),
		Breadcrumb:     stringField(fields, "breadcrumb"),
		Depth:          intField(fields, "depth"),
		Position:       intField(fields, "position"),
		ByteStart:      intField(fields, "byte_start"),
		ByteEnd:        intField(fields, "byte_end"),
		SiblingCount:   intField(fields, "sibling_count"),
		MTimeUnix:      int64(intField(fields, "mtime")),
	}
}

func sortedRecords(result *bleve.SearchResult) []*docindex.Record {
	out := make([]*docindex.Record, 0, len(result.Hits))
	for _, hit := range result.Hits {
		out = append(out, recordFromFields(hit.ID, hit.Fields))
	}
	sortByPosition(out)
	return out
}

func sortByPosition(records []*docindex.Record) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && records[j-1].Position > records[j].Position; j-- {
			records[j-1], records[j] = records[j], records[j-1]
		}
	}
}

func stringField(fields map[string]interface{}, name string) string {
	s, _ := fields[name].(string)
	return s
}

func stringSliceField(fields map[string]interface{}, name string) []string {
	switch v := fields[name].(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

func intField(fields map[string]interface{}, name string) int {
	switch v := fields[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
