package pipeline

import (
	"sort"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/doctree-search/doctree/internal/docindex"
)

// FinalLimit implements phase 5: sort by score descending (ties broken
// by id, lexicographically, per spec.md's ordering guarantees) and
// truncate to limit.
func FinalLimit(results []*SearchResult, limit int) []*SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if limit > 0 && limit < len(results) {
		return results[:limit]
	}
	return results
}

// Outcome is the full result of one pipeline run: the final ordered
// results plus the phase-3 cutoff diagnostic.
type Outcome struct {
	Results      []*SearchResult
	CutoffReason CutoffReason
}

// Run executes all five phases in sequence against an open index.
// globalTrees marks tree names exempt from LocalBoost; lookup resolves a
// node id to its SearchCandidate for phase 4's parent synthesis (spec.md
// §4.7 complete pipeline).
func Run(idx *docindex.Index, compiled query.Query, params SearchParams, globalTrees map[string]bool, lookup ParentLookup) (*Outcome, error) {
	candidates, err := Execute(idx, compiled, params, globalTrees)
	if err != nil {
		return nil, err
	}

	candidates = Normalize(candidates)

	poolSize := params.AggregationPoolSize
	if poolSize <= 0 {
		poolSize = DefaultParams().AggregationPoolSize
	}
	cutoffRatio := params.CutoffRatio
	if cutoffRatio <= 0 {
		cutoffRatio = DefaultParams().CutoffRatio
	}

	survivors, reason := ElbowCutoff(candidates, cutoffRatio, poolSize)

	results := Aggregate(survivors, params, lookup)

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultParams().Limit
	}
	results = FinalLimit(results, limit)

	return &Outcome{Results: results, CutoffReason: reason}, nil
}
