package pipeline

// ParentLookup resolves a node id to its SearchCandidate, used when the
// aggregator needs to synthesize a parent result it didn't itself
// retrieve as a hit. A missing parent forces a single insertion instead
// of a rollup (spec.md §4.7 phase 4 step 4).
type ParentLookup func(id string) (*SearchCandidate, bool)

// aggregator holds phase 4's mutable state: an ordered result list plus
// an id->position index, matching spec.md's `results`/`result_index`.
type aggregator struct {
	results []*SearchResult
	index   map[string]int
}

func newAggregator() *aggregator {
	return &aggregator{index: make(map[string]int)}
}

func (a *aggregator) get(id string) (*SearchResult, bool) {
	i, ok := a.index[id]
	if !ok {
		return nil, false
	}
	return a.results[i], true
}

func (a *aggregator) remove(id string) *SearchResult {
	i, ok := a.index[id]
	if !ok {
		return nil
	}
	r := a.results[i]
	a.results = append(a.results[:i], a.results[i+1:]...)
	delete(a.index, id)
	for otherID, otherIdx := range a.index {
		if otherIdx > i {
			a.index[otherID] = otherIdx - 1
		}
	}
	return r
}

func (a *aggregator) add(r *SearchResult) {
	a.index[r.ID] = len(a.results)
	a.results = append(a.results, r)
}

// Aggregate implements phase 4. Skipped (pass-through, one SearchResult
// per candidate) when params.DisableAggregation.
func Aggregate(candidates []*SearchCandidate, params SearchParams, lookup ParentLookup) []*SearchResult {
	if params.DisableAggregation {
		out := make([]*SearchResult, len(candidates))
		for i, c := range candidates {
			out[i] = &SearchResult{SearchCandidate: *c}
		}
		return out
	}

	threshold := params.AggregationThreshold
	if threshold <= 0 {
		threshold = DefaultParams().AggregationThreshold
	}
	if lookup == nil {
		lookup = func(string) (*SearchCandidate, bool) { return nil, false }
	}

	agg := newAggregator()
	claimed := make(map[string]bool)

	for _, c := range candidates {
		admitOne(agg, claimed, c, threshold, lookup)
	}

	return agg.results
}

// admitOne runs steps 1-4 of phase 4 for a single incoming candidate.
func admitOne(agg *aggregator, claimed map[string]bool, c *SearchCandidate, threshold float64, lookup ParentLookup) {
	if _, ok := agg.get(c.ID); ok {
		return // step 1: already present via an earlier cascade
	}
	if claimed[c.ID] {
		return // step 2 previously fired for this id
	}

	for _, r := range agg.results {
		if isAncestor(r.ID, r.DocID, c.ID, c.DocID, lookup) {
			claimed[c.ID] = true
			return // step 2: an existing result already subsumes C
		}
	}

	// step 3: existing results that are descendants of C.
	var descendantIDs []string
	for _, r := range agg.results {
		if isAncestor(c.ID, c.DocID, r.ID, r.DocID, lookup) {
			descendantIDs = append(descendantIDs, r.ID)
		}
	}
	if len(descendantIDs) > 0 {
		constituents := make([]*SearchCandidate, 0, len(descendantIDs))
		for _, id := range descendantIDs {
			constituents = append(constituents, flatten(agg.remove(id))...)
		}
		admitted := &SearchResult{SearchCandidate: *c, Constituents: constituents}
		admitted.Score = maxScore(c.Score, constituents)
		agg.add(admitted)
		cascade(agg, admitted, threshold, lookup)
		return
	}

	// step 4: siblings already admitted under the same parent.
	if c.ParentID != "" {
		var siblingIDs []string
		for _, r := range agg.results {
			if r.ParentID == c.ParentID {
				siblingIDs = append(siblingIDs, r.ID)
			}
		}
		s := len(siblingIDs)
		if c.SiblingCount > 0 && float64(s+1)/float64(c.SiblingCount) >= threshold {
			if parent, ok := lookup(c.ParentID); ok {
				constituents := make([]*SearchCandidate, 0, len(siblingIDs)+1)
				for _, id := range siblingIDs {
					constituents = append(constituents, flatten(agg.remove(id))...)
				}
				constituents = append(constituents, c)
				admitted := &SearchResult{SearchCandidate: *parent, Constituents: constituents}
				admitted.Score = maxScore(parent.Score, constituents)
				agg.add(admitted)
				cascade(agg, admitted, threshold, lookup)
				return
			}
			// missing parent: fall through to a plain single insertion.
		}
	}

	agg.add(&SearchResult{SearchCandidate: *c})
}

// cascade implements step 5: after admitting r, repeatedly check whether
// enough of r's own siblings (now in results) warrant rolling up one
// level further, continuing until no level qualifies or the root is hit.
func cascade(agg *aggregator, r *SearchResult, threshold float64, lookup ParentLookup) {
	current := r
	for current.ParentID != "" {
		var siblingIDs []string
		for _, other := range agg.results {
			if other.ID != current.ID && other.ParentID == current.ParentID {
				siblingIDs = append(siblingIDs, other.ID)
			}
		}
		s := len(siblingIDs) + 1 // including current
		if current.SiblingCount == 0 || float64(s)/float64(current.SiblingCount) < threshold {
			return
		}
		parent, ok := lookup(current.ParentID)
		if !ok {
			return
		}

		constituents := flatten(agg.remove(current.ID))
		for _, id := range siblingIDs {
			constituents = append(constituents, flatten(agg.remove(id))...)
		}
		admitted := &SearchResult{SearchCandidate: *parent, Constituents: constituents}
		admitted.Score = maxScore(parent.Score, constituents)
		agg.add(admitted)
		current = admitted
	}
}

// flatten returns r's leaf constituents: its own candidate if it is not
// itself aggregated, or its already-flat constituent list if it is — so
// repeated rollups never nest aggregated results inside one another.
func flatten(r *SearchResult) []*SearchCandidate {
	if r == nil {
		return nil
	}
	if len(r.Constituents) > 0 {
		return r.Constituents
	}
	cand := r.SearchCandidate
	return []*SearchCandidate{&cand}
}

func maxScore(base float64, constituents []*SearchCandidate) float64 {
	max := base
	for _, c := range constituents {
		if c.Score > max {
			max = c.Score
		}
	}
	return max
}

// isAncestor reports whether the chunk aID is an ancestor of bID (or is
// bID itself). Chunk ids carry no hierarchical structure in their slug
// (slugs are flat and document-scoped, see internal/chunktree), so
// ancestry is resolved by walking bID's ParentID chain via lookup rather
// than by any string relationship between the two ids.
func isAncestor(aID, aDocID, bID, bDocID string, lookup ParentLookup) bool {
	if aDocID != bDocID {
		return false
	}
	if aID == bDocID || aID == bID {
		return true // the document node is an ancestor of every chunk in it
	}

	seen := map[string]bool{bID: true}
	current := bID
	for {
		cand, ok := lookup(current)
		if !ok || cand.ParentID == "" {
			return false
		}
		if cand.ParentID == aID {
			return true
		}
		if seen[cand.ParentID] {
			return false
		}
		seen[cand.ParentID] = true
		current = cand.ParentID
	}
}
