package search

import (
	"fmt"
	"math"
	"strings"

	"github.com/blevesearch/bleve/v2"
	bquery "github.com/blevesearch/bleve/v2/search/query"
)

// TermIDF implements spec.md §4.10's term_idf(term, trees?) and the
// context.IDFSource interface C8 ranks against: classic smoothed IDF,
// log(N/df) + 1, scoped to trees when given (spec.md's Design Notes on
// per-tree IDF scoping in context).
func (f *Facade) TermIDF(term string, trees []string) (float64, bool) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return 0, false
	}

	n, err := f.scopedDocCount(trees)
	if err != nil || n == 0 {
		return 0, false
	}

	df, err := f.documentFrequency(term, trees)
	if err != nil {
		return 0, false
	}
	if df == 0 {
		return 0, false
	}

	return math.Log(float64(n)/float64(df)) + 1.0, true
}

// IDF satisfies the context.IDFSource interface C8's ranking step uses,
// delegating to TermIDF (the facade's public, spec-named operation).
func (f *Facade) IDF(term string, trees []string) (float64, bool) {
	return f.TermIDF(term, trees)
}

// PhraseExists implements the context.PhraseProber interface used by C8
// step 5's optional phrase-candidate validation (spec.md §4.8): does
// phrase occur verbatim in body or title, scoped to trees.
func (f *Facade) PhraseExists(phrase string, trees []string) (bool, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return false, nil
	}
	words := strings.Fields(strings.ToLower(phrase))
	if len(words) < 2 {
		return false, nil
	}

	bodyQ := bleve.NewMatchPhraseQuery(phrase)
	bodyQ.SetField("body")
	titleQ := bleve.NewMatchPhraseQuery(phrase)
	titleQ.SetField("title")

	b := bleve.NewBooleanQuery()
	b.AddShould(bodyQ)
	b.AddShould(titleQ)
	b.SetMinShould(1)

	var q bquery.Query = b
	if len(trees) > 0 {
		treeQ, err := treeFilterQuery(trees)
		if err != nil {
			return false, err
		}
		q = bleve.NewConjunctionQuery(q, treeQ)
	}

	req := bleve.NewSearchRequestOptions(q, 1, 0, false)
	req.Fields = nil
	result, err := f.Index.Search(req)
	if err != nil {
		return false, fmt.Errorf("probe phrase %q: %w", phrase, err)
	}
	return result.Total > 0, nil
}

func (f *Facade) scopedDocCount(trees []string) (uint64, error) {
	if len(trees) == 0 {
		return f.Index.DocCount()
	}
	treeQ, err := treeFilterQuery(trees)
	if err != nil {
		return 0, err
	}
	req := bleve.NewSearchRequestOptions(treeQ, 0, 0, false)
	result, err := f.Index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("scoped doc count: %w", err)
	}
	return result.Total, nil
}

func (f *Facade) documentFrequency(term string, trees []string) (uint64, error) {
	tq := bleve.NewTermQuery(term)
	tq.SetField("body")

	var q bquery.Query = tq
	if len(trees) > 0 {
		treeQ, err := treeFilterQuery(trees)
		if err != nil {
			return 0, err
		}
		q = bleve.NewConjunctionQuery(tq, treeQ)
	}

	req := bleve.NewSearchRequestOptions(q, 0, 0, false)
	result, err := f.Index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("document frequency for %q: %w", term, err)
	}
	return result.Total, nil
}

// treeFilterQuery builds an OR of exact tree-field matches, mirroring
// internal/pipeline.Execute's own unexported helper of the same shape.
func treeFilterQuery(trees []string) (bquery.Query, error) {
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
