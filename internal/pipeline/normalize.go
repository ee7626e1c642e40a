package pipeline

import "sort"

// Normalize implements phase 2: when more than one tree produced hits,
// divide each candidate's score by the maximum score within its own
// tree, so each tree's strongest result becomes 1.0 and trees of very
// different density become comparable. Re-sorts by normalized score
// descending. A single-tree result set (or a multi-tree search where
// only one tree actually returned hits) is left untouched.
func Normalize(candidates []*SearchCandidate) []*SearchCandidate {
	if len(candidates) == 0 {
		return candidates
	}

	maxByTree := make(map[string]float64)
	for _, c := range candidates {
		if c.Score > maxByTree[c.Tree] {
			maxByTree[c.Tree] = c.Score
		}
	}
	if len(maxByTree) < 2 {
		return candidates
	}

	for _, c := range candidates {
		max := maxByTree[c.Tree]
		if max > 0 {
			c.Score = c.Score / max
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
