// Package pipeline implements the five-phase retrieval pipeline of
// spec.md §4.7: execute, cross-tree normalize, elbow cutoff, adaptive
// hierarchical aggregation, final limit.
package pipeline

// MatchRange is a byte span within a field that a query term hit.
type MatchRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FieldMatchDetail is the per-field breakdown collected when verbosity
// demands it (spec.md §4.7 phase 1).
type FieldMatchDetail struct {
	Field          string         `json:"field"`
	TermFrequency  map[string]int `json:"term_frequency"`
	BaseScore      float64        `json:"base_score"`
	Boost          float64        `json:"boost"`
	OriginalToTerm map[string]string `json:"original_to_term"` // original term -> stemmed/fuzzy-matched term
}

// SearchCandidate is one hit materialized from the index with every
// indexed field plus the scoring/explain data the pipeline accumulates
// (spec.md §4.7 phase 1, §6 chunk record shape).
type SearchCandidate struct {
	ID             string
	DocID          string
	ParentID       string
	Title          string
	Tags           []string
	Tree           string
	Path           string
	PathComponents []string
	Body           string
	Breadcrumb     string
	Depth          int
	Position       int
	ByteStart      int
	ByteEnd        int
	SiblingCount   int

	Score   float64
	Snippet string

	MatchRanges          []MatchRange
	HierarchyMatchRanges []MatchRange // title_match_ranges
	PathMatchRanges      []MatchRange

	MatchDetails []FieldMatchDetail
}

// SearchResult is one entry of the pipeline's final output: a candidate,
// optionally aggregated over its Constituents (spec.md §4.7 phase 4, §6
// "an aggregated result adds a constituents array").
type SearchResult struct {
	SearchCandidate
	Constituents []*SearchCandidate
}

// IsAggregated reports whether r rolled up one or more constituents.
func (r *SearchResult) IsAggregated() bool {
	return len(r.Constituents) > 0
}

// SearchParams parameterizes one retrieval pipeline run (spec.md §4.7, §6).
type SearchParams struct {
	Limit                int
	AggregationPoolSize  int
	CutoffRatio          float64
	AggregationThreshold float64
	DisableAggregation   bool
	Trees                []string
	LocalBoost           float64
	Verbosity            int
}

// DefaultParams returns the semantics-preserving defaults spec.md §6
// describes (values chosen to match the teacher's own search defaults
// where it configures comparable knobs, e.g. exact_searcher.go's default
// limit of 15).
func DefaultParams() SearchParams {
	return SearchParams{
		Limit:                15,
		AggregationPoolSize:  50,
		CutoffRatio:          0.3,
		AggregationThreshold: 0.6,
		DisableAggregation:   false,
		LocalBoost:           1.0,
	}
}

// CutoffReason explains why phase 3 stopped where it did (spec.md §4.7).
type CutoffReason interface {
	isCutoffReason()
}

// RatioBelowThreshold: the elbow was found between Before and After.
type RatioBelowThreshold struct {
	Ratio  float64
	Before float64
	After  float64
}

// ZeroOrNegativeScore: cutoff triggered on a zero/negative score.
type ZeroOrNegativeScore struct{}

// MaxResultsReached: no elbow found before the aggregation pool size.
type MaxResultsReached struct{}

// TooFewCandidates: fewer than two candidates, so no ratio could be
// computed; everything survives.
type TooFewCandidates struct{}

func (RatioBelowThreshold) isCutoffReason() {}
func (ZeroOrNegativeScore) isCutoffReason() {}
func (MaxResultsReached) isCutoffReason()   {}
func (TooFewCandidates) isCutoffReason()    {}
