package edge

import (
	"sort"

	"github.com/yourusername/puckline/internal/models"
)

// Rank orders recommendations for the run: descending edge, then descending
// confidence, then stable on discovery order. A positive max truncates after
// sorting. The input slice is not modified.
func Rank(recs []models.Recommendation, max int) []models.Recommendation {
	ranked := make([]models.Recommendation, len(recs))
	copy(ranked, recs)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Edge != ranked[j].Edge {
			return ranked[i].Edge > ranked[j].Edge
		}
		return ranked[i].Confidence > ranked[j].Confidence
	})

	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}
