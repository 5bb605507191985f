package match

import "sort"

// DefaultMinScore is the similarity threshold below which a candidate is not suggested.
const DefaultMinScore = 0.5

// Suggest ranks candidates by Similarity to name and returns at most limit of
// them scoring at least minScore, best first. Ties keep candidate order.
func Suggest(name string, candidates []string, minScore float64, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var ranked []scored

	for _, c := range candidates {
		if s := Similarity(name, c); s >= minScore {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.name)
	}

	return out
}
