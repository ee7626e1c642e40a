package rules

import "github.com/doctree-search/doctree/internal/query"

// injectedTermBoost is the fixed boost factor spec.md §4.9 assigns to
// rule-injected terms: "Injected terms become Boost{Term, 2.0} clauses
// ORed with the synthesized per-file queries."
const injectedTermBoost = 2.0

// InjectedQuery builds the Or(Boost(Term, 2.0)) clause for a rule
// match's injected terms, or nil if none were injected.
func InjectedQuery(terms []string) query.Expr {
	if len(terms) == 0 {
		return nil
	}
	clauses := make([]query.Expr, 0, len(terms))
	for _, t := range terms {
		clauses = append(clauses, &query.Boost{Inner: &query.Term{Text: t}, Factor: injectedTermBoost})
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return &query.Or{Clauses: clauses}
}

// CombineWithContextQuery ORs a rule's injected-term query with the
// per-file query C8 synthesized, per spec.md §4.9's data flow: "file(s)
// → C8 terms → C9 rule matches → combined query → C7 pipeline."
func CombineWithContextQuery(contextQuery query.Expr, injected query.Expr) query.Expr {
	switch {
	case contextQuery == nil:
		return injected
	case injected == nil:
		return contextQuery
	default:
		return &query.Or{Clauses: []query.Expr{contextQuery, injected}}
	}
}
