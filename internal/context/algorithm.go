package context

import (
	"strings"
)

// Algorithm names one of the content-term scoring strategies spec.md
// §4.8 step 2 lists: "the extractor supports multiple algorithms
// (default: graph-based TextRank; alternatives: classic TF·IDF using the
// index's IDF, RAKE, YAKE), selectable at call time."
type Algorithm string

const (
	AlgorithmTextRank Algorithm = "textrank"
	AlgorithmTFIDF    Algorithm = "tfidf"
	AlgorithmRAKE     Algorithm = "rake"
	AlgorithmYAKE     Algorithm = "yake"
)

// parseAlgorithm resolves a config string to an Algorithm, defaulting to
// TextRank for an unrecognized or empty value (spec.md's stated default).
func parseAlgorithm(s string) Algorithm {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case AlgorithmTFIDF:
		return AlgorithmTFIDF
	case AlgorithmRAKE:
		return AlgorithmRAKE
	case AlgorithmYAKE:
		return AlgorithmYAKE
	default:
		return AlgorithmTextRank
	}
}

// applyAlgorithm rescales each candidate's Frequency by an
// algorithm-specific importance score computed over the whole document's
// candidate sequence (see tokenStreamFrom), so co-occurrence-based
// algorithms see adjacency across structural boundaries. TFIDF
// leaves raw per-segment frequency untouched since its IDF factor is
// applied uniformly at step 4 against the configured index.
func applyAlgorithm(alg Algorithm, candidates []candidateTerm, tokenStream []string) []candidateTerm {
	switch alg {
	case AlgorithmTextRank:
		return rescale(candidates, textRankScores(tokenStream))
	case AlgorithmRAKE:
		return rescale(candidates, rakeScores(tokenStream))
	case AlgorithmYAKE:
		return rescale(candidates, yakeScores(tokenStream))
	default:
		return candidates
	}
}

func rescale(candidates []candidateTerm, scores map[string]float64) []candidateTerm {
	out := make([]candidateTerm, len(candidates))
	for i, c := range candidates {
		s := scores[c.Term]
		if s <= 0 {
			s = 1
		}
		c.Frequency = weightedFrequency(c.Frequency, s)
		out[i] = c
	}
	return out
}

// weightedFrequency folds a float importance score into the integer
// frequency field candidateTerm carries, rounding to the nearest whole
// unit with a floor of 1 so a term with a real occurrence never drops
// out for scoring only an algorithmic score below 1.
func weightedFrequency(freq int, score float64) int {
	scaled := int(float64(freq)*score + 0.5)
	if scaled < 1 {
		return 1
	}
	return scaled
}

// windowSize is the TextRank/RAKE/YAKE co-occurrence window: two tokens
// within this many positions of each other are considered adjacent.
const windowSize = 4

// textRankScores builds a co-occurrence graph over tokenStream and runs
// a bounded number of weighted PageRank iterations, the graph-based
// default algorithm spec.md §4.8 names.
func textRankScores(tokenStream []string) map[string]float64 {
	edges := make(map[string]map[string]int)
	nodes := make(map[string]bool)

	for i, tok := range tokenStream {
		nodes[tok] = true
		for j := i + 1; j < len(tokenStream) && j <= i+windowSize; j++ {
			other := tokenStream[j]
			if other == tok {
				continue
			}
			addEdge(edges, tok, other)
			addEdge(edges, other, tok)
		}
	}

	scores := make(map[string]float64, len(nodes))
	for n := range nodes {
		scores[n] = 1.0
	}
	if len(nodes) == 0 {
		return scores
	}

	const damping = 0.85
	const iterations = 10
	for iter := 0; iter < iterations; iter++ {
		next := make(map[string]float64, len(nodes))
		for n := range nodes {
			sum := 0.0
			for neighbor, weight := range edges[n] {
				outWeight := totalWeight(edges[neighbor])
				if outWeight == 0 {
					continue
				}
				sum += float64(weight) / outWeight * scores[neighbor]
			}
			next[n] = (1 - damping) + damping*sum
		}
		scores = next
	}
	return normalizeScores(scores)
}

func addEdge(edges map[string]map[string]int, a, b string) {
	if edges[a] == nil {
		edges[a] = make(map[string]int)
	}
	edges[a][b]++
}

func totalWeight(m map[string]int) float64 {
	total := 0
	for _, w := range m {
		total += w
	}
	return float64(total)
}

// rakeScores approximates RAKE's degree/frequency ratio: a term's score
// is how many distinct co-occurring neighbors it has relative to its own
// raw frequency, rewarding terms that bridge many contexts.
func rakeScores(tokenStream []string) map[string]float64 {
	freq := make(map[string]int)
	degree := make(map[string]map[string]bool)

	for i, tok := range tokenStream {
		freq[tok]++
		if degree[tok] == nil {
			degree[tok] = make(map[string]bool)
		}
		for j := i + 1; j < len(tokenStream) && j <= i+windowSize; j++ {
			other := tokenStream[j]
			if other == tok {
				continue
			}
			degree[tok][other] = true
		}
	}

	scores := make(map[string]float64, len(freq))
	for term, f := range freq {
		scores[term] = float64(len(degree[term])+f) / float64(f)
	}
	return normalizeScores(scores)
}

// yakeScores approximates YAKE's position bias: earlier first-occurrence
// positions score higher, since a term introduced early (title, opening
// paragraph) is usually more central to the document's subject.
func yakeScores(tokenStream []string) map[string]float64 {
	firstPos := make(map[string]int, len(tokenStream))
	for i, tok := range tokenStream {
		if _, ok := firstPos[tok]; !ok {
			firstPos[tok] = i
		}
	}
	n := len(tokenStream)
	scores := make(map[string]float64, len(firstPos))
	for term, pos := range firstPos {
		if n <= 1 {
			scores[term] = 1
			continue
		}
		scores[term] = 1.0 + (1.0 - float64(pos)/float64(n))
	}
	return normalizeScores(scores)
}

// normalizeScores divides every score by the maximum so algorithm output
// is comparable regardless of document size.
func normalizeScores(scores map[string]float64) map[string]float64 {
	max := 0.0
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	if max <= 0 {
		return scores
	}
	out := make(map[string]float64, len(scores))
	for term, s := range scores {
		out[term] = s / max
	}
	return out
}

// tokenStreamFrom flattens the ordered term candidates' Term fields into
// a plain token sequence for the co-occurrence algorithms. Candidates
// arrive in extraction order from termsFromSegment/extractMarkdownTerms,
// one per distinct term per segment, so repeats of a word within one
// segment appear once in the stream, at their first position.
func tokenStreamFrom(candidates []candidateTerm) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Term
	}
	return out
}
