// Package rules implements C9, the context rules engine of spec.md §4.9:
// matching a candidate file's path against configured globs and merging
// every matching rule's injected terms, tree filters, pinned includes,
// and scoring-parameter overrides by union.
package rules

import (
	"fmt"

	"github.com/doctree-search/doctree/internal/config"
	"github.com/gobwas/glob"
)

// Matched is the union of every rule that matched a given file, per
// spec.md §4.9: "MatchedRules from multiple files are merged by union."
type Matched struct {
	InjectTerms []string
	Trees       []string
	PinInclude  []string
	Overrides   *config.ScoringConfig
}

// HasOverrides reports whether any matched rule supplied a scoring
// override.
func (m Matched) HasOverrides() bool {
	return m.Overrides != nil
}

type compiledRule struct {
	glob   glob.Glob
	source config.ContextRule
}

// Engine holds a compiled set of (glob, action) pairs, grounded on
// internal/manifest/discovery.go's glob-compile-and-match idiom (itself
// adapted from the teacher's discovery.go), reused here for rule
// matching instead of file discovery.
type Engine struct {
	rules []compiledRule
}

// NewEngine compiles every configured context rule's glob up front so
// Match never returns a compile error mid-query.
func NewEngine(rules []config.ContextRule) (*Engine, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if r.Glob == "" {
			return nil, fmt.Errorf("rules: empty glob pattern")
		}
		g, err := glob.Compile(r.Glob, '/')
		if err != nil {
			return nil, fmt.Errorf("rules: compiling glob %q: %w", r.Glob, err)
		}
		compiled = append(compiled, compiledRule{glob: g, source: r})
	}
	return &Engine{rules: compiled}, nil
}

// Match returns the union of every rule whose glob matches path.
func (e *Engine) Match(path string) Matched {
	var out Matched
	termSeen := make(map[string]bool)
	treeSeen := make(map[string]bool)
	pinSeen := make(map[string]bool)

	for _, cr := range e.rules {
		if !cr.glob.Match(path) {
			continue
		}
		for _, t := range cr.source.InjectTerms {
			if !termSeen[t] {
				termSeen[t] = true
				out.InjectTerms = append(out.InjectTerms, t)
			}
		}
		for _, t := range cr.source.Trees {
			if !treeSeen[t] {
				treeSeen[t] = true
				out.Trees = append(out.Trees, t)
			}
		}
		for _, p := range cr.source.PinInclude {
			if !pinSeen[p] {
				pinSeen[p] = true
				out.PinInclude = append(out.PinInclude, p)
			}
		}
		if cr.source.Overrides != nil {
			out.Overrides = mergeOverrides(out.Overrides, cr.source.Overrides)
		}
	}
	return out
}

// mergeOverrides folds a newly matched rule's overrides onto any
// previously accumulated overrides from an earlier matching rule in
// iteration order; a later rule's explicitly-set (non-zero) field wins.
func mergeOverrides(acc, next *config.ScoringConfig) *config.ScoringConfig {
	if acc == nil {
		merged := *next
		return &merged
	}
	merged := *acc
	if next.CutoffRatio != 0 {
		merged.CutoffRatio = next.CutoffRatio
	}
	if next.AggregationThreshold != 0 {
		merged.AggregationThreshold = next.AggregationThreshold
	}
	if next.Limit != 0 {
		merged.Limit = next.Limit
	}
	if next.AggregationPoolSize != 0 {
		merged.AggregationPoolSize = next.AggregationPoolSize
	}
	return &merged
}

// EffectiveTrees implements spec.md §4.9's "Effective tree filter =
// (trees from rules) ∪ (CLI-provided trees); empty means all trees."
func EffectiveTrees(matched Matched, cliTrees []string) []string {
	seen := make(map[string]bool, len(matched.Trees)+len(cliTrees))
	var out []string
	for _, t := range matched.Trees {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range cliTrees {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
