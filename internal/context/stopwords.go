package context

// stopWords filters common English function words out of both path and
// content term extraction, grounded on HSn0918-rag's KeywordExtractor
// stop-word map (internal/chunking/markdown.go's NewKeywordExtractor),
// extended with a handful of words common in doc/code paths and prose.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"this": true, "that": true, "these": true, "those": true,
	"it": true, "its": true, "as": true, "from": true, "into": true,
	"not": true, "no": true, "if": true, "then": true, "than": true,
	"can": true, "will": true, "should": true, "would": true, "could": true,
	"has": true, "have": true, "had": true, "do": true, "does": true, "did": true,
	"you": true, "your": true, "we": true, "our": true, "they": true, "their": true,
	"about": true, "which": true, "what": true, "when": true, "where": true,
	"how": true, "all": true, "any": true, "each": true, "more": true,
	"other": true, "some": true, "such": true, "only": true, "own": true,
	"so": true, "up": true, "out": true, "also": true,
	// common path/doc boilerplate tokens worth dropping
	"readme": true, "index": true, "doc": true, "docs": true, "md": true, "txt": true,
}

func isStopWord(w string) bool {
	return stopWords[w]
}
