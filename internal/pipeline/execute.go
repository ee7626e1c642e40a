package pipeline

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/doctree-search/doctree/internal/docindex"
)

// storedFields are the fields requested back from the index for each
// hit, mirroring docindex's schema (exact_searcher.go's Search requests
// the same shape of its own schema's fields rather than "*").
var storedFields = []string{
	"id", "doc_id", "parent_id", "title", "tags", "tree", "path",
	"path_components", "body", "breadcrumb", "depth", "position",
	"byte_start", "byte_end", "sibling_count",
}

// effectiveCandidateLimit derives phase 1's retrieval size: ample
// headroom over the aggregation pool so phases 2-4 have enough
// candidates to find a real elbow and roll up siblings (spec.md §4.7
// phase 1 "derived from pool size, defaulting ample headroom").
func effectiveCandidateLimit(params SearchParams) int {
	n := params.AggregationPoolSize
	if params.Limit > n {
		n = params.Limit
	}
	if n <= 0 {
		n = DefaultParams().AggregationPoolSize
	}
	return n * 3
}

// Execute runs phase 1: apply the tree filter, retrieve up to the
// effective candidate limit, and materialize a SearchCandidate per hit.
// globalTrees marks which tree names are exempt from LocalBoost.
func Execute(idx *docindex.Index, compiled query.Query, params SearchParams, globalTrees map[string]bool) ([]*SearchCandidate, error) {
	q := compiled
	if len(params.Trees) > 0 {
		treeFilter, err := treeFilterQuery(params.Trees)
		if err != nil {
			return nil, err
		}
		and := bleve.NewConjunctionQuery(q, treeFilter)
		q = and
	}

	req := bleve.NewSearchRequestOptions(q, effectiveCandidateLimit(params), 0, false)
	req.Fields = storedFields
	req.IncludeLocations = true

	highlightStyle := "html"
	req.Highlight = bleve.NewHighlight()
	req.Highlight.Style = &highlightStyle
	req.Highlight.Fields = []string{"body"}

	result, err := idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	localBoost := params.LocalBoost
	if localBoost <= 0 {
		localBoost = 1.0
	}

	candidates := make([]*SearchCandidate, 0, len(result.Hits))
	for _, hit := range result.Hits {
		c := candidateFromHit(hit)
		if !globalTrees[c.Tree] {
			c.Score *= localBoost
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// treeFilterQuery builds an OR of exact tree-field matches, the same
// compiled form internal/compile builds for a bare `tree:(a OR b)`
// expression.
func treeFilterQuery(trees []string) (query.Query, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("treeFilterQuery called with no trees")
	}
	if len(trees) == 1 {
		tq := bleve.NewTermQuery(trees[0])
		tq.SetField("tree")
		return tq, nil
	}
	b := bleve.NewBooleanQuery()
	for _, t := range trees {
		tq := bleve.NewTermQuery(t)
		tq.SetField("tree")
		b.AddShould(tq)
	}
	b.SetMinShould(1)
	return b, nil
}

// candidateFromHit reconstructs a SearchCandidate from a bleve hit's
// stored fields, term locations and highlight fragments, mirroring
// exact_searcher.go's Search's "no post-filtering, reconstruct from
// hit.Fields" idiom.
func candidateFromHit(hit *search.DocumentMatch) *SearchCandidate {
	c := &SearchCandidate{
		ID:    hit.ID,
		Score: hit.Score,
	}

	c.DocID = stringField(hit.Fields, "doc_id")
	c.ParentID = stringField(hit.Fields, "parent_id")
	c.Title = stringField(hit.Fields, "title")
	c.Tree = stringField(hit.Fields, "tree")
	c.Path = stringField(hit.Fields, "path")
	c.Body = stringField(hit.Fields, "body")
	c.Breadcrumb = stringField(hit.Fields, "breadcrumb")
	c.Tags = stringSliceField(hit.Fields, "tags")
	c.PathComponents = stringSliceField(hit.Fields, "path_components")
	c.Depth = intField(hit.Fields, "depth")
	c.Position = intField(hit.Fields, "position")
	c.ByteStart = intField(hit.Fields, "byte_start")
	c.ByteEnd = intField(hit.Fields, "byte_end")
	c.SiblingCount = intField(hit.Fields, "sibling_count")

	if frags, ok := hit.Fragments["body"]; ok && len(frags) > 0 {
		c.Snippet = frags[0]
	}

	c.MatchRanges = rangesForField(hit.Locations, "body")
	c.HierarchyMatchRanges = rangesForField(hit.Locations, "title")
	c.PathMatchRanges = rangesForField(hit.Locations, "path")

	return c
}

func rangesForField(locs search.FieldTermLocationMap, field string) []MatchRange {
	termLocs, ok := locs[field]
	if !ok {
		return nil
	}
	var ranges []MatchRange
	for _, locList := range termLocs {
		for _, l := range locList {
			ranges = append(ranges, MatchRange{Start: int(l.Start), End: int(l.End)})
		}
	}
	return ranges
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
