package context

import "sort"

// Rank implements spec.md §4.8 step 4: score = weight × frequency ×
// IDF(term), restricted to the given trees (empty means every tree), and
// drop any term IDFSource has never seen. Results are sorted by score
// descending, ties broken by term for determinism.
func Rank(terms []WeightedTerm, idf IDFSource, trees []string) []RankedTerm {
	out := make([]RankedTerm, 0, len(terms))
	for _, t := range terms {
		val, ok := idf.IDF(t.Term, trees)
		if !ok {
			continue
		}
		out = append(out, RankedTerm{
			WeightedTerm: t,
			IDF:          val,
			Score:        t.Weight * float64(t.Frequency) * val,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Term < out[j].Term
	})
	return out
}
