package forecast

import (
	"math"
	"testing"

	"github.com/yourusername/puckline/internal/models"
)

func evenProfile(team string) models.TeamProfile {
	return models.TeamProfile{
		Team:           team,
		WinPct:         0.5,
		GoalsForPG:     3.0,
		GoalsAgainstPG: 3.0,
		PointsPct:      0.5,
	}
}

func TestWeightedMetricSameTeamsBonus(t *testing.T) {
	metric := NewWeightedMetric()
	matchup := models.Matchup{HomeTeam: "TOR", AwayTeam: "MTL"}
	home := evenProfile("TOR")
	away := evenProfile("MTL")

	tests := []struct {
		name     string
		histHome string
		histAway string
		want     float64
	}{
		// All statistical factors match exactly; only the same-teams bonus
		// varies. Total factor weight is 13, the bonus is worth 2.
		{name: "Exact rematch", histHome: "TOR", histAway: "MTL", want: 1.0},
		{name: "Venue reversed", histHome: "MTL", histAway: "TOR", want: 12.0 / 13.0},
		{name: "Unrelated teams", histHome: "BOS", histAway: "NYR", want: 11.0 / 13.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := models.HistoricalGame{HomeTeam: tt.histHome, AwayTeam: tt.histAway}
			got := metric.Similarity(matchup, home, away, game, evenProfile(tt.histHome), evenProfile(tt.histAway))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestWeightedMetricBounds(t *testing.T) {
	metric := NewWeightedMetric()
	matchup := models.Matchup{HomeTeam: "TOR", AwayTeam: "MTL"}

	strong := models.TeamProfile{WinPct: 0.9, GoalsForPG: 4.5, GoalsAgainstPG: 1.5, PointsPct: 0.9}
	weak := models.TeamProfile{WinPct: 0.1, GoalsForPG: 1.5, GoalsAgainstPG: 4.5, PointsPct: 0.1}

	game := models.HistoricalGame{HomeTeam: "BOS", AwayTeam: "NYR"}
	got := metric.Similarity(matchup, strong, weak, game, weak, strong)
	if got < 0 || got > 1 {
		t.Errorf("Similarity %f outside [0,1]", got)
	}

	// Mirror-image strength gaps should score well below an even comparison.
	even := metric.Similarity(matchup, strong, weak, game, strong, weak)
	if got >= even {
		t.Errorf("mismatched gap %f should score below matched gap %f", got, even)
	}
}
