package search

import (
	"fmt"
	"sort"
	"strings"

	ctxanalyzer "github.com/doctree-search/doctree/internal/context"
	"github.com/doctree-search/doctree/internal/pipeline"
	"github.com/doctree-search/doctree/internal/query"
)

// MLTParams controls more-like-this term selection, per spec.md §4.10:
// "MLT params control min/max doc frequency, min term frequency, max
// query terms, min/max word length, a term-boost factor, and stop
// words."
type MLTParams struct {
	MinDocFreq    int
	MaxDocFreq    int // 0 means unbounded
	MinTermFreq   int
	MaxQueryTerms int
	MinWordLength int
	MaxWordLength int
	TermBoost     float64
	StopWords     map[string]bool
}

// DefaultMLTParams mirrors C8's context analyzer defaults for word
// length. Its doc-frequency bounds only drop terms absent from the index
// (MinDocFreq 1); MaxDocFreq 0 leaves frequent terms unbounded.
func DefaultMLTParams() MLTParams {
	return MLTParams{
		MinDocFreq:    1,
		MaxDocFreq:    0,
		MinTermFreq:   1,
		MaxQueryTerms: 25,
		MinWordLength: 3,
		MaxWordLength: 40,
		TermBoost:     1.0,
	}
}

// MoreLikeThisByID implements spec.md §4.10: build an MLT query from the
// source chunk's own title+body text, excluding it (and every other
// chunk of the same document) from the results.
func (f *Facade) MoreLikeThisByID(id string, mltParams MLTParams, params pipeline.SearchParams) (*pipeline.Outcome, error) {
	rec, ok, err := f.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("more like this: no such id %q", id)
	}
	text := rec.Title + " " + rec.Body
	return f.moreLikeThis(text, mltParams, params, []string{rec.ID}, []string{rec.DocID})
}

// MoreLikeThisByFields implements spec.md §4.10's by-fields variant:
// synthesize source text from arbitrary field values rather than an
// existing chunk.
func (f *Facade) MoreLikeThisByFields(fields map[string]string, mltParams MLTParams, params pipeline.SearchParams, excludeIDs []string) (*pipeline.Outcome, error) {
	var b strings.Builder
	for _, v := range fields {
		b.WriteString(v)
		b.WriteByte(' ')
	}
	return f.moreLikeThis(b.String(), mltParams, params, excludeIDs, nil)
}

func (f *Facade) moreLikeThis(text string, mltParams MLTParams, params pipeline.SearchParams, excludeIDs, excludeDocIDs []string) (*pipeline.Outcome, error) {
	terms := f.mltQueryTerms(text, mltParams)
	if len(terms) == 0 {
		return &pipeline.Outcome{}, nil
	}

	clauses := make([]query.Expr, 0, len(terms))
	for _, t := range terms {
		clauses = append(clauses, &query.Boost{Inner: &query.Term{Text: t}, Factor: mltParams.TermBoost})
	}
	var expr query.Expr = &query.Or{Clauses: clauses}
	if len(clauses) == 1 {
		expr = clauses[0]
	}

	outcome, err := f.SearchAggregatedExpr(expr, params)
	if err != nil {
		return nil, err
	}
	outcome.Results = excludeResults(outcome.Results, excludeIDs, excludeDocIDs)
	return outcome, nil
}

// mltQueryTerms extracts salient terms from text via C8's path/content
// extraction machinery (path component empty; this is a raw-text
// source, not a file), then filters by MLT's own doc-frequency and
// term-frequency bounds and caps the result at MaxQueryTerms.
func (f *Facade) mltQueryTerms(text string, mltParams MLTParams) []string {
	cfg := f.Config.ContextAnalyzer
	if mltParams.MinWordLength > 0 {
		cfg.MinWordLength = mltParams.MinWordLength
	}
	if mltParams.MaxWordLength > 0 {
		cfg.MaxWordLength = mltParams.MaxWordLength
	}

	analyzer := ctxanalyzer.NewAnalyzer(cfg, f)
	weighted := analyzer.ExtractWeightedTerms("", []byte(text))

	type scored struct {
		term string
		freq int
	}
	var candidates []scored
	for _, w := range weighted {
		if mltParams.StopWords[w.Term] {
			continue
		}
		if w.Frequency < mltParams.MinTermFreq {
			continue
		}
		df, err := f.documentFrequency(w.Term, nil)
		if err != nil {
			continue
		}
		if mltParams.MinDocFreq > 0 && df < uint64(mltParams.MinDocFreq) {
			continue
		}
		if mltParams.MaxDocFreq > 0 && df > uint64(mltParams.MaxDocFreq) {
			continue
		}
		candidates = append(candidates, scored{term: w.Term, freq: w.Frequency})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].freq > candidates[j].freq })

	max := mltParams.MaxQueryTerms
	if max <= 0 || max > len(candidates) {
		max = len(candidates)
	}
	out := make([]string, max)
	for i := 0; i < max; i++ {
		out[i] = candidates[i].term
	}
	return out
}

func excludeResults(results []*pipeline.SearchResult, excludeIDs, excludeDocIDs []string) []*pipeline.SearchResult {
	idSet := toSet(excludeIDs)
	docSet := toSet(excludeDocIDs)
	out := make([]*pipeline.SearchResult, 0, len(results))
	for _, r := range results {
		if idSet[r.ID] || docSet[r.DocID] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func toSet(vals []string) map[string]bool {
	out := make(map[string]bool, len(vals))
	for _, v := range vals {
		out[v] = true
	}
	return out
}
