package context

import (
	"github.com/doctree-search/doctree/internal/query"
)

// BuildQuery implements spec.md §4.8 step 5: the top maxTerms ranked
// terms become an Or of each wrapped in a Boost carrying its ranking
// score as the factor. Returns nil if ranked is empty (no query
// produced, per spec.md).
func BuildQuery(ranked []RankedTerm, maxTerms int) query.Expr {
	if len(ranked) == 0 {
		return nil
	}
	if maxTerms > 0 && maxTerms < len(ranked) {
		ranked = ranked[:maxTerms]
	}

	clauses := make([]query.Expr, 0, len(ranked))
	for _, r := range ranked {
		clauses = append(clauses, &query.Boost{
			Inner:  &query.Term{Text: r.Term},
			Factor: r.Score,
		})
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return &query.Or{Clauses: clauses}
}

// BuildQueryWithPhrases is BuildQuery extended by spec.md §4.8 step 5's
// optional phrase-candidate validation: adjacent top-ranked terms from
// compatible sources (heading-with-heading or body-with-body; never
// path) are probed against prober as bigrams/trigrams, and an accepted
// phrase replaces its constituent terms in the final query.
func BuildQueryWithPhrases(ranked []RankedTerm, maxTerms int, prober PhraseProber, trees []string) query.Expr {
	if prober == nil {
		return BuildQuery(ranked, maxTerms)
	}
	if maxTerms > 0 && maxTerms < len(ranked) {
		ranked = ranked[:maxTerms]
	}
	if len(ranked) == 0 {
		return nil
	}

	used := make([]bool, len(ranked))
	var clauses []query.Expr

	for i := 0; i < len(ranked); i++ {
		if used[i] {
			continue
		}
		phraseWords, consumed := tryPhrase(ranked, used, i, prober, trees)
		if len(phraseWords) >= 2 {
			score := phraseScore(ranked[i : i+consumed])
			clauses = append(clauses, &query.Boost{
				Inner:  &query.Phrase{Words: phraseWords},
				Factor: score,
			})
			for k := i; k < i+consumed; k++ {
				used[k] = true
			}
			continue
		}
		clauses = append(clauses, &query.Boost{
			Inner:  &query.Term{Text: ranked[i].Term},
			Factor: ranked[i].Score,
		})
		used[i] = true
	}

	if len(clauses) == 1 {
		return clauses[0]
	}
	return &query.Or{Clauses: clauses}
}

// tryPhrase attempts a trigram then a bigram starting at i, probing each
// against the index before accepting; compatible sources only (heading
// with heading, body with body, never path per spec.md).
func tryPhrase(ranked []RankedTerm, used []bool, i int, prober PhraseProber, trees []string) ([]string, int) {
	for span := 3; span >= 2; span-- {
		if i+span > len(ranked) {
			continue
		}
		if !compatibleSpan(ranked[i : i+span]) {
			continue
		}
		words := make([]string, span)
		for k := 0; k < span; k++ {
			words[k] = ranked[i+k].Term
		}
		phrase := joinWords(words)
		ok, err := prober.PhraseExists(phrase, trees)
		if err == nil && ok {
			return words, span
		}
	}
	return nil, 1
}

// compatibleSpan reports whether every term in the span shares a
// phrase-compatible source class: heading tiers with each other, or body
// with body, never involving a path-derived term.
func compatibleSpan(terms []RankedTerm) bool {
	isHeading := func(s Source) bool { return s == SourceH1 || s == SourceH2H3 || s == SourceH4H6 }
	firstHeading := isHeading(terms[0].Source)
	firstBody := terms[0].Source == SourceBody
	if terms[0].Source.isPath() {
		return false
	}
	for _, t := range terms[1:] {
		if t.Source.isPath() {
			return false
		}
		if firstHeading && !isHeading(t.Source) {
			return false
		}
		if firstBody && t.Source != SourceBody {
			return false
		}
	}
	return true
}

func phraseScore(terms []RankedTerm) float64 {
	max := 0.0
	for _, t := range terms {
		if t.Score > max {
			max = t.Score
		}
	}
	return max
}

func joinWords(words []string) string {
	out := words[0]
	for _, w := range words[1:] {
		out += " " + w
	}
	return out
}
