// Package compile lowers a query.Expr into the bleve query primitives
// that the underlying full-text index executes, per spec.md §4.4.
package compile

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	querypkg "github.com/doctree-search/doctree/internal/query"
)

// searchableFields is the fan-out target for an unfielded term/phrase,
// in the order their boosts are applied.
var searchableFields = []string{"title", "tags", "path", "path_components", "body"}

// recognizedFields are the field names a Field expression may restrict
// to. Anything else is a compile error.
var recognizedFields = map[string]bool{
	"title": true, "tags": true, "body": true, "path": true, "tree": true,
}

// Config carries the per-field boosts and fuzzy settings that parameterize
// compilation; it mirrors the "search defaults" section of the
// configuration view in spec.md §3.
type Config struct {
	// FieldBoosts maps field name to its configured boost multiplier.
	// A field absent from the map gets boost 1.0.
	FieldBoosts map[string]float64
	// FuzzyDistance is the configured Levenshtein edit distance; 0
	// disables fuzzy matching.
	FuzzyDistance int
}

func (c Config) boostFor(field string) float64 {
	if b, ok := c.FieldBoosts[field]; ok {
		return b
	}
	return 1.0
}

// Error reports a query that lexed and parsed but cannot be translated
// into the index's query primitives (spec.md §7 QueryError::Compile).
type Error struct {
	Message string
}

func (e *Error) Error() string { return "compile error: " + e.Message }

// boostable is satisfied by every bleve query.Query implementation that
// carries a score multiplier.
type boostable interface {
	SetBoost(b float64)
	Boost() float64
}

// Compile lowers e into a bleve query.Query. A nil, nil return means the
// expression compiled to nothing (an empty And/Or).
func Compile(e querypkg.Expr, cfg Config) (query.Query, error) {
	return compileExpr(e, cfg)
}

func compileExpr(e querypkg.Expr, cfg Config) (query.Query, error) {
	switch v := e.(type) {
	case *querypkg.Term:
		return compileTermOrPhrase(v.Text, "", cfg)

	case *querypkg.Phrase:
		return compilePhrase(v.Words, "", cfg)

	case *querypkg.Field:
		return compileField(v, cfg)

	case *querypkg.Not:
		inner, err := compileExpr(v.Inner, cfg)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return bleve.NewMatchAllQuery(), nil
		}
		b := bleve.NewBooleanQuery()
		b.AddMustNot(inner)
		b.AddMust(bleve.NewMatchAllQuery())
		return b, nil

	case *querypkg.And:
		return compileAnd(v, cfg)

	case *querypkg.Or:
		return compileOr(v, cfg)

	case *querypkg.Boost:
		inner, err := compileExpr(v.Inner, cfg)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, nil
		}
		// Field boosts and explicit ^N boosts compose multiplicatively
		// (spec.md §4.9): read whatever the field fan-out already set and
		// multiply the user's factor on top, rather than replacing it.
		if bq, ok := inner.(boostable); ok {
			bq.SetBoost(bq.Boost() * v.Factor)
		}
		return inner, nil

	default:
		return nil, &Error{Message: fmt.Sprintf("unrecognized expression type %T", e)}
	}
}

// compileAnd collects positive children into MUST and Not children into
// MUST_NOT directly, per spec.md §4.4. If only negatives remain, a
// match-all base is added so the boolean query has something to match.
func compileAnd(a *querypkg.And, cfg Config) (query.Query, error) {
	b := bleve.NewBooleanQuery()
	var musts, mustNots []query.Query

	for _, c := range a.Clauses {
		if notClause, ok := c.(*querypkg.Not); ok {
			inner, err := compileExpr(notClause.Inner, cfg)
			if err != nil {
				return nil, err
			}
			if inner != nil {
				mustNots = append(mustNots, inner)
			}
			continue
		}
		compiled, err := compileExpr(c, cfg)
		if err != nil {
			return nil, err
		}
		if compiled != nil {
			musts = append(musts, compiled)
		}
	}

	if len(musts) == 0 && len(mustNots) == 0 {
		return nil, nil
	}
	if len(musts) == 0 {
		musts = append(musts, bleve.NewMatchAllQuery())
	}
	b.AddMust(musts...)
	if len(mustNots) > 0 {
		b.AddMustNot(mustNots...)
	}
	return b, nil
}

// compileOr builds a Should-combination requiring at least one match.
func compileOr(o *querypkg.Or, cfg Config) (query.Query, error) {
	var shoulds []query.Query
	for _, c := range o.Clauses {
		compiled, err := compileExpr(c, cfg)
		if err != nil {
			return nil, err
		}
		if compiled != nil {
			shoulds = append(shoulds, compiled)
		}
	}
	if len(shoulds) == 0 {
		return nil, nil
	}
	if len(shoulds) == 1 {
		return shoulds[0], nil
	}
	b := bleve.NewBooleanQuery()
	b.AddShould(shoulds...)
	b.SetMinShould(1)
	return b, nil
}

// compileField restricts fan-out to a single field. tree is an exact
// equality field (no stemming, no tokenization) and accepts only a term
// or an OR of terms.
func compileField(f *querypkg.Field, cfg Config) (query.Query, error) {
	if !recognizedFields[f.Name] {
		return nil, &Error{Message: "unknown field '" + f.Name + "'"}
	}

	if f.Name == "tree" {
		return compileTreeField(f.Inner, cfg)
	}

	switch inner := f.Inner.(type) {
	case *querypkg.Term:
		return compileTermOrPhrase(inner.Text, f.Name, cfg)
	case *querypkg.Phrase:
		return compilePhrase(inner.Words, f.Name, cfg)
	case *querypkg.Or:
		return compileOr(inner, cfg)
	case *querypkg.And:
		return compileAnd(inner, cfg)
	default:
		return compileExpr(f.Inner, cfg)
	}
}

// compileTreeField accepts only a bare term or a disjunction of terms,
// each compiled as an exact (non-analyzed) match.
func compileTreeField(inner querypkg.Expr, cfg Config) (query.Query, error) {
	switch v := inner.(type) {
	case *querypkg.Term:
		q := bleve.NewTermQuery(v.Text)
		q.SetField("tree")
		q.SetBoost(cfg.boostFor("tree"))
		return q, nil
	case *querypkg.Or:
		var shoulds []query.Query
		for _, c := range v.Clauses {
			term, ok := c.(*querypkg.Term)
			if !ok {
				return nil, &Error{Message: "tree field only accepts a term or an OR of terms"}
			}
			q := bleve.NewTermQuery(term.Text)
			q.SetField("tree")
			shoulds = append(shoulds, q)
		}
		b := bleve.NewBooleanQuery()
		b.AddShould(shoulds...)
		b.SetMinShould(1)
		b.SetBoost(cfg.boostFor("tree"))
		return b, nil
	default:
		return nil, &Error{Message: "tree field only accepts a term or an OR of terms"}
	}
}

// compileTermOrPhrase implements the single-Term compilation rule: if
// the text splits on whitespace into 2+ words, compile as a phrase;
// otherwise a term match, fuzzy if configured. The split is by whitespace
// only, not by the field analyzer, so a term such as "foo-bar" is not
// turned into a phrase here.
func compileTermOrPhrase(text, field string, cfg Config) (query.Query, error) {
	words := strings.Fields(text)
	if len(words) >= 2 {
		return compilePhrase(words, field, cfg)
	}

	if field == "" {
		return fanOut(func(f string) query.Query { return compileSingleTerm(text, f, cfg) }, cfg)
	}
	return compileSingleTerm(text, field, cfg), nil
}

func compileSingleTerm(text, field string, cfg Config) query.Query {
	// path_components is term-only (spec.md §4.4): matched exactly, never
	// fuzzy, never phrase-adjacent.
	if field == "path_components" {
		tq := bleve.NewTermQuery(text)
		tq.SetField(field)
		tq.SetBoost(cfg.boostFor(field))
		return tq
	}

	var q query.Query
	if cfg.FuzzyDistance > 0 {
		fq := bleve.NewFuzzyQuery(text)
		fq.SetFuzziness(cfg.FuzzyDistance)
		fq.SetField(field)
		q = fq
	} else {
		mq := bleve.NewMatchQuery(text)
		mq.SetField(field)
		q = mq
	}
	if bq, ok := q.(boostable); ok {
		bq.SetBoost(cfg.boostFor(field))
	}
	return q
}

func compilePhrase(words []string, field string, cfg Config) (query.Query, error) {
	if field == "" {
		return fanOut(func(f string) query.Query { return compileSinglePhrase(words, f, cfg) }, cfg), nil
	}
	return compileSinglePhrase(words, field, cfg), nil
}

func compileSinglePhrase(words []string, field string, cfg Config) query.Query {
	// path_components is term-only: a multi-word match becomes a
	// conjunction of exact per-word terms rather than phrase adjacency.
	if field == "path_components" {
		b := bleve.NewBooleanQuery()
		terms := make([]query.Query, len(words))
		for i, w := range words {
			tq := bleve.NewTermQuery(w)
			tq.SetField(field)
			terms[i] = tq
		}
		b.AddMust(terms...)
		b.SetBoost(cfg.boostFor(field))
		return b
	}

	pq := bleve.NewMatchPhraseQuery(strings.Join(words, " "))
	pq.SetField(field)
	pq.SetBoost(cfg.boostFor(field))
	return pq
}

// fanOut builds a Should-combination of build(field) over every
// searchable field, each already boosted by build.
func fanOut(build func(field string) query.Query, cfg Config) query.Query {
	queries := make([]query.Query, 0, len(searchableFields))
	for _, f := range searchableFields {
		queries = append(queries, build(f))
	}
	if len(queries) == 1 {
		return queries[0]
	}
	b := bleve.NewBooleanQuery()
	b.AddShould(queries...)
	b.SetMinShould(1)
	return b
}
