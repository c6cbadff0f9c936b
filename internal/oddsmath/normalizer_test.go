package oddsmath

import (
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/puckline/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestNormalizeTwoSidedMarkets(t *testing.T) {
	matchup := models.Matchup{HomeTeam: "TOR", AwayTeam: "MTL"}
	quotes := []models.MarketQuote{
		{Book: "pinnacle", Market: models.MarketMoneyline, Side: models.SideHome, Price: -150},
		{Book: "pinnacle", Market: models.MarketMoneyline, Side: models.SideAway, Price: 150},
		{Book: "fanduel", Market: models.MarketMoneyline, Side: models.SideHome, Price: -140},
		{Book: "fanduel", Market: models.MarketMoneyline, Side: models.SideAway, Price: 120},
		{Book: "pinnacle", Market: models.MarketTotal, Side: models.SideOver, Price: -110, Point: floatPtr(6.5)},
		{Book: "pinnacle", Market: models.MarketTotal, Side: models.SideUnder, Price: -110, Point: floatPtr(6.5)},
	}

	forecast, err := NewNormalizer(quietLogger()).Normalize(matchup, quotes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum := forecast.HomeWinProb + forecast.AwayWinProb; math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("moneyline probs sum to %.12f, want 1", sum)
	}
	if sum := forecast.OverProb + forecast.UnderProb; math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("total probs sum to %.12f, want 1", sum)
	}
	if forecast.HomeWinProb <= 0.5 {
		t.Errorf("home is the favorite at both books, got %f", forecast.HomeWinProb)
	}
	if forecast.BooksML != 2 {
		t.Errorf("BooksML = %d, want 2", forecast.BooksML)
	}
	if math.Abs(forecast.OverProb-0.5) > 1e-9 {
		t.Errorf("-110/-110 total should de-vig to 0.5, got %f", forecast.OverProb)
	}
	if forecast.TotalLine == nil || *forecast.TotalLine != 6.5 {
		t.Errorf("total line not captured: %v", forecast.TotalLine)
	}
	if forecast.Unblended {
		t.Error("fully two-sided market flagged as unblended")
	}
}

func TestNormalizeOneSidedMarket(t *testing.T) {
	matchup := models.Matchup{HomeTeam: "EDM", AwayTeam: "CGY"}
	quotes := []models.MarketQuote{
		{Book: "thescore", Market: models.MarketTotal, Side: models.SideOver, Price: -105, Point: floatPtr(6.0)},
	}

	forecast, err := NewNormalizer(quietLogger()).Normalize(matchup, quotes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !forecast.Unblended {
		t.Error("one-sided market should be flagged unblended")
	}
	if !forecast.MarketUnblended(models.MarketTotal) {
		t.Error("total market should be flagged unblended")
	}
	raw, _ := AmericanToImplied(-105)
	if math.Abs(forecast.OverProb-raw) > 1e-9 {
		t.Errorf("one-sided over prob = %f, want raw implied %f", forecast.OverProb, raw)
	}
}

func TestNormalizeOneSidedExcludedFromConsensus(t *testing.T) {
	matchup := models.Matchup{HomeTeam: "EDM", AwayTeam: "CGY"}
	quotes := []models.MarketQuote{
		{Book: "pinnacle", Market: models.MarketTotal, Side: models.SideOver, Price: -110, Point: floatPtr(6.5)},
		{Book: "pinnacle", Market: models.MarketTotal, Side: models.SideUnder, Price: -110, Point: floatPtr(6.5)},
		// Over only, at a price whose raw implied probability is well above
		// the de-vigged 0.5 and must not drag the consensus.
		{Book: "thescore", Market: models.MarketTotal, Side: models.SideOver, Price: -200, Point: floatPtr(6.5)},
	}

	forecast, err := NewNormalizer(quietLogger()).Normalize(matchup, quotes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(forecast.OverProb-0.5) > 1e-9 {
		t.Errorf("OverProb = %f, want 0.5 from the de-vigged pair alone", forecast.OverProb)
	}
	if forecast.BooksTotal != 1 {
		t.Errorf("BooksTotal = %d, want 1", forecast.BooksTotal)
	}
	if forecast.Unblended || forecast.MarketUnblended(models.MarketTotal) {
		t.Error("market with a de-vigged pair should not be flagged unblended")
	}
}

func TestNormalizeConsensusLine(t *testing.T) {
	matchup := models.Matchup{HomeTeam: "TOR", AwayTeam: "MTL"}
	quotes := []models.MarketQuote{
		{Book: "pinnacle", Market: models.MarketTotal, Side: models.SideOver, Price: -110, Point: floatPtr(6.0)},
		{Book: "pinnacle", Market: models.MarketTotal, Side: models.SideUnder, Price: -110, Point: floatPtr(6.0)},
		{Book: "fanduel", Market: models.MarketTotal, Side: models.SideOver, Price: -115, Point: floatPtr(6.5)},
		{Book: "fanduel", Market: models.MarketTotal, Side: models.SideUnder, Price: -105, Point: floatPtr(6.5)},
		{Book: "draftkings", Market: models.MarketTotal, Side: models.SideOver, Price: -112, Point: floatPtr(6.5)},
		{Book: "draftkings", Market: models.MarketTotal, Side: models.SideUnder, Price: -108, Point: floatPtr(6.5)},
	}

	forecast, err := NewNormalizer(quietLogger()).Normalize(matchup, quotes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if forecast.TotalLine == nil || *forecast.TotalLine != 6.5 {
		t.Errorf("TotalLine = %v, want modal 6.5", forecast.TotalLine)
	}
}

func TestNormalizeLineStableAcrossRuns(t *testing.T) {
	matchup := models.Matchup{HomeTeam: "TOR", AwayTeam: "MTL"}
	// Two books split on the line; the tie must resolve the same way on
	// every call regardless of map iteration order.
	quotes := []models.MarketQuote{
		{Book: "pinnacle", Market: models.MarketTotal, Side: models.SideOver, Price: -110, Point: floatPtr(6.0)},
		{Book: "pinnacle", Market: models.MarketTotal, Side: models.SideUnder, Price: -110, Point: floatPtr(6.0)},
		{Book: "fanduel", Market: models.MarketTotal, Side: models.SideOver, Price: -110, Point: floatPtr(6.5)},
		{Book: "fanduel", Market: models.MarketTotal, Side: models.SideUnder, Price: -110, Point: floatPtr(6.5)},
	}

	normalizer := NewNormalizer(quietLogger())
	for i := 0; i < 200; i++ {
		forecast, err := normalizer.Normalize(matchup, quotes)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if forecast.TotalLine == nil || *forecast.TotalLine != 6.0 {
			t.Fatalf("run %d: TotalLine = %v, want 6.0 every run", i, forecast.TotalLine)
		}
	}
}

func TestNormalizeSkipsInvalidQuotes(t *testing.T) {
	matchup := models.Matchup{HomeTeam: "BOS", AwayTeam: "NYR"}
	quotes := []models.MarketQuote{
		// Malformed pair: zero price must drop the book, not the matchup.
		{Book: "badbook", Market: models.MarketMoneyline, Side: models.SideHome, Price: 0},
		{Book: "badbook", Market: models.MarketMoneyline, Side: models.SideAway, Price: 130},
		{Book: "pinnacle", Market: models.MarketMoneyline, Side: models.SideHome, Price: -120},
		{Book: "pinnacle", Market: models.MarketMoneyline, Side: models.SideAway, Price: 100},
	}

	forecast, err := NewNormalizer(quietLogger()).Normalize(matchup, quotes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if forecast.BooksML != 1 {
		t.Errorf("BooksML = %d, want 1 after skipping malformed pair", forecast.BooksML)
	}
}

func TestNormalizeNoQuotes(t *testing.T) {
	matchup := models.Matchup{HomeTeam: "BOS", AwayTeam: "NYR"}
	if _, err := NewNormalizer(quietLogger()).Normalize(matchup, nil); err == nil {
		t.Error("expected error for matchup with no quotes")
	}
}
