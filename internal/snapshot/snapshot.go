package snapshot

import (
	"time"

	"github.com/yourusername/puckline/internal/models"
)

// Snapshot is the one externally observed artifact of a run. It is built as
// an immutable value and handed to the writer whole; nothing updates it in
// place after a run completes.
type Snapshot struct {
	Timestamp       time.Time               `json:"timestamp"`
	Stake           float64                 `json:"stake"`
	DaysBack        int                     `json:"days_back,omitempty"`
	MinEdge         float64                 `json:"min_edge,omitempty"`
	HistoricalGames int                     `json:"n_historical_games"`
	Partial         bool                    `json:"partial,omitempty"`
	GamesAnalyzed   []GameAnalysis          `json:"games_analyzed"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// GameAnalysis is the per-game view: what the model thought, what the market
// said, and what the blend settled on.
type GameAnalysis struct {
	Game         string     `json:"game"`
	Home         string     `json:"home"`
	Away         string     `json:"away"`
	ModelProbs   ProbGroup  `json:"model_probs"`
	MarketProbs  MarketView `json:"market_probs"`
	BlendedProbs ProbGroup  `json:"blended_probs"`
	SimilarGames int        `json:"n_similar"`
	BetCount     int        `json:"n_bets"`
}

// ProbGroup is a win-probability pair with its totals context.
type ProbGroup struct {
	HomeWinProb   float64  `json:"home_win_prob"`
	AwayWinProb   float64  `json:"away_win_prob"`
	ExpectedTotal float64  `json:"expected_total"`
	TotalLine     *float64 `json:"total_line"`
	Confidence    float64  `json:"confidence"`
}

// MarketView is the de-vigged consensus pair.
type MarketView struct {
	HomeWinProb float64 `json:"home_win_prob"`
	AwayWinProb float64 `json:"away_win_prob"`
}

// NewGameAnalysis assembles the per-game snapshot entry from the three
// forecasts and the count of bets that qualified for the game.
func NewGameAnalysis(matchup models.Matchup, model models.ModelForecast,
	market models.MarketForecast, blended models.BlendedForecast, betCount int) GameAnalysis {

	return GameAnalysis{
		Game: matchup.Label(),
		Home: matchup.HomeTeam,
		Away: matchup.AwayTeam,
		ModelProbs: ProbGroup{
			HomeWinProb:   model.HomeWinProb,
			AwayWinProb:   model.AwayWinProb,
			ExpectedTotal: model.ExpectedTotal,
			TotalLine:     model.TotalLine,
			Confidence:    model.Confidence,
		},
		MarketProbs: MarketView{
			HomeWinProb: market.HomeWinProb,
			AwayWinProb: market.AwayWinProb,
		},
		BlendedProbs: ProbGroup{
			HomeWinProb:   blended.HomeWinProb,
			AwayWinProb:   blended.AwayWinProb,
			ExpectedTotal: blended.ExpectedTotal,
			TotalLine:     blended.TotalLine,
			Confidence:    blended.Confidence,
		},
		SimilarGames: model.SimilarGames,
		BetCount:     betCount,
	}
}
