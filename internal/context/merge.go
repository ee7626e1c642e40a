package context

// mergeCandidates implements spec.md §4.8 step 3: collapse duplicate
// terms across path and content sources, keeping the higher weight and
// summing frequency counters. First-seen Original form and Source (the
// one carrying the kept weight) win ties.
func mergeCandidates(groups ...[]candidateTerm) []WeightedTerm {
	order := make([]string, 0)
	merged := make(map[string]WeightedTerm)

	for _, group := range groups {
		for _, c := range group {
			existing, ok := merged[c.Term]
			if !ok {
				merged[c.Term] = WeightedTerm{
					Term: c.Term, Original: c.Original, Source: c.Source,
					Weight: c.Weight, Frequency: c.Frequency,
				}
				order = append(order, c.Term)
				continue
			}
			existing.Frequency += c.Frequency
			if c.Weight > existing.Weight {
				existing.Weight = c.Weight
				existing.Source = c.Source
				existing.Original = c.Original
			}
			merged[c.Term] = existing
		}
	}

	out := make([]WeightedTerm, 0, len(order))
	for _, term := range order {
		out = append(out, merged[term])
	}
	return out
}
