package pipeline

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/puckline/internal/blend"
	"github.com/yourusername/puckline/internal/edge"
	"github.com/yourusername/puckline/internal/forecast"
	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/oddsmath"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testPipeline(t *testing.T, workers int) *Pipeline {
	t.Helper()
	logger := quietLogger()
	p, err := New(
		forecast.NewForecaster(nil, forecast.DefaultParams(), logger),
		oddsmath.NewNormalizer(logger),
		blend.NewBlender(0.35, false, logger),
		edge.NewEngine(edge.DefaultParams(), logger),
		Options{Stake: 1.0, Workers: workers},
		logger,
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func evenProfile(team string) models.TeamProfile {
	return models.TeamProfile{Team: team, WinPct: 0.5, GoalsForPG: 3.0, GoalsAgainstPG: 3.0, PointsPct: 0.5}
}

// testCorpus holds decades of TOR/MTL and EDM/CGY rematches where the home
// side always won, so forecasts disagree sharply with an even market.
func testCorpus() *forecast.Corpus {
	teams := [][2]string{{"TOR", "MTL"}, {"EDM", "CGY"}}
	corpus := &forecast.Corpus{Profiles: map[string]models.TeamProfile{}}
	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	id := int64(1)
	for _, pair := range teams {
		corpus.Profiles[pair[0]] = evenProfile(pair[0])
		corpus.Profiles[pair[1]] = evenProfile(pair[1])
		for i := 0; i < 30; i++ {
			corpus.Games = append(corpus.Games, models.HistoricalGame{
				SourceID:  id,
				Date:      start.AddDate(0, 0, i),
				HomeTeam:  pair[0],
				AwayTeam:  pair[1],
				HomeScore: 4,
				AwayScore: 2,
			})
			id++
		}
	}
	return corpus
}

func evenMoneylineQuotes() []models.MarketQuote {
	return []models.MarketQuote{
		{Book: "pinnacle", Market: models.MarketMoneyline, Side: models.SideHome, Price: -110},
		{Book: "pinnacle", Market: models.MarketMoneyline, Side: models.SideAway, Price: -110},
	}
}

func testGames() []GameInput {
	return []GameInput{
		{Matchup: models.Matchup{HomeTeam: "TOR", AwayTeam: "MTL"}, Quotes: evenMoneylineQuotes()},
		{Matchup: models.Matchup{HomeTeam: "EDM", AwayTeam: "CGY"}, Quotes: evenMoneylineQuotes()},
	}
}

func TestRunProducesSnapshot(t *testing.T) {
	p := testPipeline(t, 2)

	snap, err := p.Run(context.Background(), testCorpus(), testGames())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(snap.GamesAnalyzed) != 2 {
		t.Fatalf("games analyzed = %d, want 2", len(snap.GamesAnalyzed))
	}
	if snap.Partial {
		t.Error("completed run flagged partial")
	}
	if snap.Stake != 1.0 {
		t.Errorf("Stake = %f", snap.Stake)
	}

	// Input order is preserved regardless of worker completion order.
	if snap.GamesAnalyzed[0].Game != "MTL @ TOR" || snap.GamesAnalyzed[1].Game != "CGY @ EDM" {
		t.Errorf("game order = %q, %q", snap.GamesAnalyzed[0].Game, snap.GamesAnalyzed[1].Game)
	}

	betTotal := 0
	for _, g := range snap.GamesAnalyzed {
		for _, probs := range []struct {
			name       string
			home, away float64
		}{
			{"model", g.ModelProbs.HomeWinProb, g.ModelProbs.AwayWinProb},
			{"market", g.MarketProbs.HomeWinProb, g.MarketProbs.AwayWinProb},
			{"blended", g.BlendedProbs.HomeWinProb, g.BlendedProbs.AwayWinProb},
		} {
			if sum := probs.home + probs.away; math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("%s: %s probs sum to %f", g.Game, probs.name, sum)
			}
		}
		// Home swept every precedent against an even market: an edge on the
		// home moneyline must surface.
		if g.BetCount == 0 {
			t.Errorf("%s: expected a home moneyline bet", g.Game)
		}
		betTotal += g.BetCount
	}

	if len(snap.Recommendations) != betTotal {
		t.Errorf("recommendations = %d, n_bets total = %d", len(snap.Recommendations), betTotal)
	}
	for i := 1; i < len(snap.Recommendations); i++ {
		if snap.Recommendations[i].Edge > snap.Recommendations[i-1].Edge {
			t.Error("recommendations not sorted by descending edge")
		}
	}
}

func TestRunEmptyCorpusIsFatal(t *testing.T) {
	p := testPipeline(t, 1)

	_, err := p.Run(context.Background(), &forecast.Corpus{}, testGames())
	if !errors.Is(err, models.ErrEmptyCorpus) {
		t.Errorf("error = %v, want ErrEmptyCorpus", err)
	}
}

func TestRunContainsBadGame(t *testing.T) {
	p := testPipeline(t, 1)
	games := append(testGames(), GameInput{
		Matchup: models.Matchup{HomeTeam: "BOS", AwayTeam: "NYR"},
		Quotes:  nil, // nothing to price
	})

	snap, err := p.Run(context.Background(), testCorpus(), games)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(snap.GamesAnalyzed) != 2 {
		t.Errorf("games analyzed = %d, want the quoteless game dropped", len(snap.GamesAnalyzed))
	}
}

func TestRunCancelledReturnsPartialSnapshot(t *testing.T) {
	p := testPipeline(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap, err := p.Run(ctx, testCorpus(), testGames())
	if !errors.Is(err, models.ErrRunAborted) {
		t.Fatalf("error = %v, want ErrRunAborted", err)
	}
	if snap == nil {
		t.Fatal("partial snapshot should still be returned")
	}
	if !snap.Partial {
		t.Error("aborted run not flagged partial")
	}
	if len(snap.GamesAnalyzed) >= len(testGames()) {
		t.Errorf("cancelled before dispatch, got %d games", len(snap.GamesAnalyzed))
	}
}

func TestRunTruncatesRecommendations(t *testing.T) {
	logger := quietLogger()
	p, err := New(
		forecast.NewForecaster(nil, forecast.DefaultParams(), logger),
		oddsmath.NewNormalizer(logger),
		blend.NewBlender(0.35, false, logger),
		edge.NewEngine(edge.DefaultParams(), logger),
		Options{Stake: 1.0, MaxRecommendations: 1},
		logger,
	)
	if err != nil {
		t.Fatal(err)
	}

	snap, err := p.Run(context.Background(), testCorpus(), testGames())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(snap.Recommendations) != 1 {
		t.Errorf("recommendations = %d, want 1", len(snap.Recommendations))
	}
}
