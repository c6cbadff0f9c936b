package forecast

import (
	"math"

	"github.com/yourusername/puckline/internal/models"
)

// Metric scores how comparable a historical game is to an upcoming matchup,
// in [0,1] with 1 meaning an effectively identical setup. Implementations
// must be pure so the scan can run concurrently.
type Metric interface {
	Similarity(matchup models.Matchup, home, away models.TeamProfile,
		game models.HistoricalGame, histHome, histAway models.TeamProfile) float64
}

// Factor weights for the default metric. The quality differential dominates;
// everything else contributes equally.
const (
	weightQualityDiff = 3.0
	weightOffense     = 2.0
	weightDefense     = 2.0
	weightSameTeams   = 2.0
	weightPointsPct   = 2.0

	// Venue-reversed rematches earn half the same-teams bonus.
	reversedMatchupFactor = 0.5

	// Per-goal gaps are scaled against a 3-goal spread before clamping.
	goalGapScale = 3.0
)

// WeightedMetric is the default similarity metric: a weighted blend of team
// quality differential, offensive and defensive strength gaps, a same-teams
// bonus, and points-percentage proximity.
type WeightedMetric struct{}

// NewWeightedMetric returns the default metric.
func NewWeightedMetric() WeightedMetric {
	return WeightedMetric{}
}

// Similarity implements Metric.
func (WeightedMetric) Similarity(matchup models.Matchup, home, away models.TeamProfile,
	game models.HistoricalGame, histHome, histAway models.TeamProfile) float64 {

	score := 0.0
	maxScore := 0.0

	// Quality differential: how alike is the gap between the two teams.
	currentDiff := home.WinPct - away.WinPct
	histDiff := histHome.WinPct - histAway.WinPct
	score += weightQualityDiff * (1.0 - math.Min(math.Abs(currentDiff-histDiff), 1.0))
	maxScore += weightQualityDiff

	// Offensive strength, each side against its historical counterpart.
	score += weightOffense * goalGapSim(home.GoalsForPG, histHome.GoalsForPG)
	maxScore += weightOffense
	score += weightOffense * goalGapSim(away.GoalsForPG, histAway.GoalsForPG)
	maxScore += weightOffense

	// Defensive strength.
	score += weightDefense * goalGapSim(home.GoalsAgainstPG, histHome.GoalsAgainstPG)
	maxScore += weightDefense
	score += weightDefense * goalGapSim(away.GoalsAgainstPG, histAway.GoalsAgainstPG)
	maxScore += weightDefense

	// Same-teams bonus.
	switch {
	case game.HomeTeam == matchup.HomeTeam && game.AwayTeam == matchup.AwayTeam:
		score += weightSameTeams
	case game.HomeTeam == matchup.AwayTeam && game.AwayTeam == matchup.HomeTeam:
		score += weightSameTeams * reversedMatchupFactor
	}
	maxScore += weightSameTeams

	// Points percentage proximity, both sides averaged.
	ppctGap := (math.Abs(home.PointsPct-histHome.PointsPct) +
		math.Abs(away.PointsPct-histAway.PointsPct)) / 2.0
	score += weightPointsPct * math.Max(1.0-ppctGap, 0)
	maxScore += weightPointsPct

	return score / maxScore
}

func goalGapSim(current, historical float64) float64 {
	return 1.0 - math.Min(math.Abs(current-historical)/goalGapScale, 1.0)
}
