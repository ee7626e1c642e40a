package context

import (
	"strings"

	"github.com/doctree-search/doctree/internal/config"
)

// extractPathTerms implements spec.md §4.8 step 1: split the path into
// components, split each component on "_", "-", ".", lowercase, filter by
// length and stopword, and weight filename tokens above directory
// tokens.
func extractPathTerms(path string, cfg config.ContextAnalyzerConfig) []candidateTerm {
	path = strings.ReplaceAll(path, "\\", "/")
	segments := strings.Split(path, "/")
	segments = removeEmpty(segments)
	if len(segments) == 0 {
		return nil
	}

	var out []candidateTerm
	last := len(segments) - 1
	for i, seg := range segments {
		source := SourcePathDir
		if i == last {
			source = SourcePathFilename
		}
		for _, tok := range splitPathSegment(seg) {
			lower := strings.ToLower(tok)
			if !acceptTerm(lower, cfg) {
				continue
			}
			out = append(out, candidateTerm{
				Term: lower, Original: tok, Source: source,
				Weight: source.weight(), Frequency: 1,
			})
		}
	}
	return out
}

// splitPathSegment splits one path component on "_", "-", ".". The whole
// segment (not just the stem) is fed through this splitter, so a file
// extension comes out as a token of its own ("my_file.md" gives "my",
// "file", "md") and is left to the length and stopword filters.
func splitPathSegment(seg string) []string {
	return strings.FieldsFunc(seg, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
}

func acceptTerm(term string, cfg config.ContextAnalyzerConfig) bool {
	if term == "" || isStopWord(term) {
		return false
	}
	if len(term) < cfg.MinWordLength {
		return false
	}
	if cfg.MaxWordLength > 0 && len(term) > cfg.MaxWordLength {
		return false
	}
	return isAlphanumeric(term)
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return len(s) > 0
}

func removeEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
