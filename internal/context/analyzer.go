package context

import (
	"fmt"

	"github.com/doctree-search/doctree/internal/chunktree"
	"github.com/doctree-search/doctree/internal/config"
	"github.com/doctree-search/doctree/internal/query"
)

// FileInput is one file handed to Analyze: its tree-relative path (for
// step 1's path term extraction) and its content (for step 2).
type FileInput struct {
	Path    string
	Content []byte
}

// Warning records a skipped file during multi-file analysis (spec.md §7:
// "the file is skipped and a ContextWarning{path, reason} is attached").
type Warning struct {
	Path   string
	Reason string
}

// Analysis is the result of analyzing one or more files: the ranked
// terms behind the synthesized query, the query itself, and any
// per-file warnings from a batch call.
type Analysis struct {
	Ranked   []RankedTerm
	Query    query.Expr
	Warnings []Warning
}

// Analyzer runs the full C8 pipeline: path + content extraction, merge,
// IDF-weighted ranking, and query synthesis (spec.md §4.8).
type Analyzer struct {
	Config config.ContextAnalyzerConfig
	IDF    IDFSource
	Prober PhraseProber // optional; nil disables step 5's phrase validation
}

// NewAnalyzer constructs an Analyzer bound to an IDF source (typically
// the search facade, scoped to whatever trees the caller will search).
func NewAnalyzer(cfg config.ContextAnalyzerConfig, idf IDFSource) *Analyzer {
	return &Analyzer{Config: cfg, IDF: idf}
}

// ExtractWeightedTerms runs steps 1-3 of spec.md §4.8 (path extraction,
// algorithm-scored content extraction, merge) for a single file without
// ranking — for callers, such as C10's MoreLikeThis, that want salient
// terms without a full IDF-backed Analyze.
func (a *Analyzer) ExtractWeightedTerms(path string, content []byte) []WeightedTerm {
	alg := parseAlgorithm(a.Config.Algorithm)
	pathTerms := extractPathTerms(path, a.Config)
	ft := chunktree.DetectFileType(extExt(path))
	contentCandidates := extractContentTerms(ft, content, a.Config)
	tokenStream := tokenStreamFrom(contentCandidates)
	contentTerms := applyAlgorithm(alg, contentCandidates, tokenStream)
	return mergeCandidates(pathTerms, contentTerms)
}

// Analyze runs the pipeline over a single file.
func (a *Analyzer) Analyze(path string, content []byte, trees []string) (*Analysis, error) {
	return a.AnalyzeFiles([]FileInput{{Path: path, Content: content}}, trees)
}

// AnalyzeFiles runs the pipeline over multiple files, merging their
// extracted terms before ranking (spec.md §7: per-file read failures are
// tolerated as long as at least one file remains analyzable — the
// caller is responsible for reading each file and reporting a Warning
// for ones it could not read by omitting them from files and noting why,
// since this function only sees files it was handed successfully read).
func (a *Analyzer) AnalyzeFiles(files []FileInput, trees []string) (*Analysis, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("context: no analyzable files")
	}

	alg := parseAlgorithm(a.Config.Algorithm)

	var pathGroups, contentGroups [][]candidateTerm
	for _, f := range files {
		pathGroups = append(pathGroups, extractPathTerms(f.Path, a.Config))

		ft := chunktree.DetectFileType(extExt(f.Path))
		contentCandidates := extractContentTerms(ft, f.Content, a.Config)
		tokenStream := tokenStreamFrom(contentCandidates)
		contentGroups = append(contentGroups, applyAlgorithm(alg, contentCandidates, tokenStream))
	}

	all := append(append([][]candidateTerm{}, pathGroups...), contentGroups...)
	merged := mergeCandidates(all...)

	if a.IDF == nil {
		return nil, fmt.Errorf("context: no IDF source configured")
	}
	ranked := Rank(merged, a.IDF, trees)

	maxTerms := a.Config.MaxTerms
	if maxTerms <= 0 {
		maxTerms = 15
	}

	var q query.Expr
	if a.Config.ValidatePhrases {
		q = BuildQueryWithPhrases(ranked, maxTerms, a.Prober, trees)
	} else {
		q = BuildQuery(ranked, maxTerms)
	}

	if maxTerms < len(ranked) {
		ranked = ranked[:maxTerms]
	}

	return &Analysis{Ranked: ranked, Query: q}, nil
}

// extExt returns the file extension (with leading dot) of path, treating
// both "/" and the whole string as valid since path may already be
// relative-to-tree.
func extExt(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i] {
		case '.':
			return path[i:]
		case '/':
			return ""
		}
	}
	return ""
}
