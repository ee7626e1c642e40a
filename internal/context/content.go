package context

import (
	"regexp"
	"strings"

	"github.com/doctree-search/doctree/internal/chunktree"
	"github.com/doctree-search/doctree/internal/config"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmtext "github.com/yuin/goldmark/text"
)

// wordPattern extracts word-shaped runs the same way HSn0918-rag's
// KeywordExtractor does (internal/chunking/markdown.go's
// `\b\w+\b` regex), applied per structural segment here instead of over
// the whole document at once.
var wordPattern = regexp.MustCompile(`[A-Za-z0-9]+`)

var contentParser = goldmark.New(goldmark.WithExtensions(extension.GFM))

// extractContentTerms implements spec.md §4.8 step 2: dispatch by file
// type, tagging Markdown terms by structural context (H1 > H2-3 > H4-6 >
// body) and treating plain text uniformly as body. content is truncated
// to cfg.SampleSize bytes first (spec.md §3's "sample size" analyzer
// knob) so a very large file doesn't dominate extraction cost.
func extractContentTerms(ft chunktree.FileType, content []byte, cfg config.ContextAnalyzerConfig) []candidateTerm {
	if cfg.SampleSize > 0 && len(content) > cfg.SampleSize {
		content = content[:cfg.SampleSize]
	}

	switch ft {
	case chunktree.FileTypeMarkdown:
		return extractMarkdownTerms(content, cfg)
	default:
		return extractPlainTextTerms(content, cfg)
	}
}

func extractPlainTextTerms(content []byte, cfg config.ContextAnalyzerConfig) []candidateTerm {
	return termsFromSegment(string(content), SourceBody, cfg)
}

// extractMarkdownTerms walks the goldmark AST, bucketing each heading's
// and paragraph's text into the structural tier its nearest enclosing
// heading belongs to.
func extractMarkdownTerms(content []byte, cfg config.ContextAnalyzerConfig) []candidateTerm {
	doc := contentParser.Parser().Parse(gmtext.NewReader(content))

	var out []candidateTerm
	currentTier := SourceBody

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			text := headingPlainText(v, content)
			tier := tierForLevel(v.Level)
			out = append(out, termsFromSegment(text, tier, cfg)...)
			currentTier = tierBodyFollowing(v.Level)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			text := blockPlainText(n, content)
			out = append(out, termsFromSegment(text, currentTier, cfg)...)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return out
}

// tierForLevel maps a heading's own level to its structural tier.
func tierForLevel(level int) Source {
	switch {
	case level == 1:
		return SourceH1
	case level <= 3:
		return SourceH2H3
	default:
		return SourceH4H6
	}
}

// tierBodyFollowing is the tier body text immediately under a heading of
// the given level inherits — still weighted above the generic SourceBody
// floor when the heading itself was a high tier, by inheriting that
// heading's own tier rather than dropping straight to body weight.
func tierBodyFollowing(level int) Source {
	return tierForLevel(level)
}

func headingPlainText(h *ast.Heading, src []byte) string {
	return blockPlainText(h, src)
}

func blockPlainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			b.WriteByte(' ')
		case *ast.CodeSpan:
			for cc := t.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if txt, ok := cc.(*ast.Text); ok {
					b.Write(txt.Segment.Value(src))
					b.WriteByte(' ')
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// termsFromSegment tokenizes text into word-shaped runs, lowercases,
// length/stopword-filters, and counts frequency within the segment.
func termsFromSegment(text string, source Source, cfg config.ContextAnalyzerConfig) []candidateTerm {
	words := wordPattern.FindAllString(text, -1)
	counts := make(map[string]int, len(words))
	originals := make(map[string]string, len(words))
	order := make([]string, 0, len(words))

	for _, w := range words {
		lower := strings.ToLower(w)
		if !acceptTerm(lower, cfg) {
			continue
		}
		if counts[lower] == 0 {
			originals[lower] = w
			order = append(order, lower)
		}
		counts[lower]++
	}

	out := make([]candidateTerm, 0, len(order))
	for _, term := range order {
		out = append(out, candidateTerm{
			Term: term, Original: originals[term], Source: source,
			Weight: source.weight(), Frequency: counts[term],
		})
	}
	return out
}
