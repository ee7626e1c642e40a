package search

import (
	"fmt"

	ctxanalyzer "github.com/doctree-search/doctree/internal/context"
	"github.com/doctree-search/doctree/internal/config"
	"github.com/doctree-search/doctree/internal/pipeline"
	"github.com/doctree-search/doctree/internal/rules"
)

// ContextFile is one file handed to ContextSearch: its tree-relative
// path and content.
type ContextFile struct {
	Path    string
	Content []byte
}

// ContextSearch implements spec.md §4's context data flow: "file(s) →
// C8 terms → C9 rule matches → combined query → C7 pipeline." C9's
// pinned includes and scoring overrides are applied to params before
// the pipeline runs; its tree filter is unioned with any caller-supplied
// trees per spec.md §4.9.
func (f *Facade) ContextSearch(files []ContextFile, rulesEngine *rules.Engine, params pipeline.SearchParams) (*pipeline.Outcome, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("context search: no files")
	}

	analyzer := ctxanalyzer.NewAnalyzer(f.Config.ContextAnalyzer, f)

	inputs := make([]ctxanalyzer.FileInput, len(files))
	for i, cf := range files {
		inputs[i] = ctxanalyzer.FileInput{Path: cf.Path, Content: cf.Content}
	}

	analysis, err := analyzer.AnalyzeFiles(inputs, params.Trees)
	if err != nil {
		return nil, fmt.Errorf("context search: analyze: %w", err)
	}

	var matched rules.Matched
	if rulesEngine != nil {
		for _, cf := range files {
			matched = unionMatched(matched, rulesEngine.Match(cf.Path))
		}
	}

	expr := rules.CombineWithContextQuery(analysis.Query, rules.InjectedQuery(matched.InjectTerms))
	if expr == nil {
		return &pipeline.Outcome{}, nil
	}

	params.Trees = rules.EffectiveTrees(matched, params.Trees)
	if matched.HasOverrides() {
		params = applyOverrides(params, matched.Overrides)
	}

	outcome, err := f.SearchAggregatedExpr(expr, params)
	if err != nil {
		return nil, err
	}

	outcome.Results = append(pinnedResults(f, matched.PinInclude, params.Trees), outcome.Results...)
	return outcome, nil
}

func unionMatched(acc, next rules.Matched) rules.Matched {
	acc.InjectTerms = appendUnique(acc.InjectTerms, next.InjectTerms)
	acc.Trees = appendUnique(acc.Trees, next.Trees)
	acc.PinInclude = appendUnique(acc.PinInclude, next.PinInclude)
	if next.Overrides != nil {
		acc.Overrides = next.Overrides
	}
	return acc
}

func appendUnique(acc, next []string) []string {
	seen := make(map[string]bool, len(acc))
	for _, v := range acc {
		seen[v] = true
	}
	for _, v := range next {
		if !seen[v] {
			seen[v] = true
			acc = append(acc, v)
		}
	}
	return acc
}

// applyOverrides folds a matched context rule's ScoringConfig override
// onto params, a non-zero field at a time (spec.md §4.9: overrides are
// per-field, not wholesale replacements).
func applyOverrides(params pipeline.SearchParams, o *config.ScoringConfig) pipeline.SearchParams {
	if o.CutoffRatio != 0 {
		params.CutoffRatio = o.CutoffRatio
	}
	if o.AggregationThreshold != 0 {
		params.AggregationThreshold = o.AggregationThreshold
	}
	if o.Limit != 0 {
		params.Limit = o.Limit
	}
	if o.AggregationPoolSize != 0 {
		params.AggregationPoolSize = o.AggregationPoolSize
	}
	return params
}

// pinnedResults resolves each rule-pinned path to its document-root
// chunk, when the search is scoped to exactly one tree (spec.md §4.9's
// pinned includes assume the tree context the rule itself names).
func pinnedResults(f *Facade, pins []string, trees []string) []*pipeline.SearchResult {
	if len(trees) != 1 {
		return nil
	}
	tree := trees[0]

	var out []*pipeline.SearchResult
	for _, path := range pins {
		recs, err := f.GetByPath(tree, path)
		if err != nil || len(recs) == 0 {
			continue
		}
		out = append(out, &pipeline.SearchResult{SearchCandidate: *candidateFromRecord(recs[0])})
	}
	return out
}
