// Package context implements C8, the context analyzer of spec.md §4.8:
// extracting weighted terms from a file's path and content, ranking them
// by weight × frequency × IDF, and synthesizing a boosted query.
package context

// Source names where a candidate term came from, used to weight it and
// to gate which sources a phrase candidate may combine (spec.md §4.8
// step 5: "never path").
type Source string

const (
	SourcePathFilename Source = "path:filename"
	SourcePathDir      Source = "path:dir"
	SourceH1           Source = "content:h1"
	SourceH2H3         Source = "content:h2-h3"
	SourceH4H6         Source = "content:h4-h6"
	SourceBody         Source = "content:body"
)

// weight returns the base weight spec.md §4.8 assigns a source before
// algorithm-specific scoring multiplies it.
func (s Source) weight() float64 {
	switch s {
	case SourcePathFilename:
		return 4.0
	case SourcePathDir:
		return 3.0
	case SourceH1:
		return 4.0
	case SourceH2H3:
		return 3.0
	case SourceH4H6:
		return 2.0
	case SourceBody:
		return 1.0
	default:
		return 1.0
	}
}

func (s Source) isPath() bool {
	return s == SourcePathFilename || s == SourcePathDir
}

// candidateTerm is one occurrence of a term collected during path or
// content extraction, before duplicate-merging (spec.md §4.8 step 3).
type candidateTerm struct {
	Term      string
	Original  string // first-seen surface form, preserved for display
	Source    Source
	Weight    float64
	Frequency int
}

// WeightedTerm is one term after path+content merge (spec.md §4.8 step
// 3): the higher of its contributing weights, frequencies summed.
type WeightedTerm struct {
	Term      string
	Original  string
	Source    Source
	Weight    float64
	Frequency int
}

// RankedTerm is a WeightedTerm after step 4's scoring.
type RankedTerm struct {
	WeightedTerm
	IDF   float64
	Score float64
}

// IDFSource supplies term document-frequency statistics for ranking
// (spec.md §4.8 step 4), optionally scoped to a set of trees so a
// context search that will be filtered to specific trees doesn't have
// its scores inflated by commonness elsewhere (spec.md's Design Notes,
// "Per-tree IDF scoping in context").
type IDFSource interface {
	IDF(term string, trees []string) (float64, bool)
}

// PhraseProber probes whether a candidate phrase exists verbatim in the
// index, gating spec.md §4.8 step 5's optional phrase-candidate
// validation.
type PhraseProber interface {
	PhraseExists(phrase string, trees []string) (bool, error)
}
