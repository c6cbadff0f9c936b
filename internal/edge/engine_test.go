package edge

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

func blendedWith(homeProb, confidence float64) models.BlendedForecast {
	return models.BlendedForecast{
		HomeWinProb:   homeProb,
		AwayWinProb:   1 - homeProb,
		OverProb:      0.5,
		UnderProb:     0.5,
		HomeCoverProb: 0.5,
		AwayCoverProb: 0.5,
		Confidence:    confidence,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

var testMatchup = models.Matchup{HomeTeam: "TOR", AwayTeam: "MTL"}

func TestEvaluateScenario(t *testing.T) {
	// Blended 0.58 against +120 at a 0.50 stake.
	params := DefaultParams()
	params.Stake = 0.50
	engine := NewEngine(params, quietLogger())

	quote := models.MarketQuote{Book: "fanduel", Market: models.MarketMoneyline, Side: models.SideHome, Price: 120}
	rec, ok, err := engine.Evaluate(testMatchup, blendedWith(0.58, 0.7), quote)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("bet should qualify")
	}

	if math.Abs(rec.EV-0.138) > 1e-9 {
		t.Errorf("EV = %f, want 0.138", rec.EV)
	}
	if math.Abs(rec.ROI-0.276) > 1e-9 {
		t.Errorf("ROI = %f, want 0.276", rec.ROI)
	}
	if math.Abs(rec.Edge-(0.58-100.0/220.0)) > 1e-9 {
		t.Errorf("Edge = %f, want 0.1255", rec.Edge)
	}
	if rec.Grade != models.GradeA {
		t.Errorf("Grade = %s, want A", rec.Grade)
	}
	if rec.Pick != "TOR ML" {
		t.Errorf("Pick = %q, want \"TOR ML\"", rec.Pick)
	}
	if rec.Game != "MTL @ TOR" {
		t.Errorf("Game = %q", rec.Game)
	}
}

func TestEvaluateEdgeGateIsStrict(t *testing.T) {
	// Exactly representable numbers: implied(+300) = 0.25 and a minimum
	// edge of 1/32, so the boundary comparison carries no rounding noise.
	params := DefaultParams()
	params.MinEdge = 0.03125
	engine := NewEngine(params, quietLogger())
	quote := models.MarketQuote{Book: "fanduel", Market: models.MarketMoneyline, Side: models.SideHome, Price: 300}

	_, ok, err := engine.Evaluate(testMatchup, blendedWith(0.28125, 0.7), quote)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("edge equal to the minimum must not qualify")
	}

	rec, ok, err := engine.Evaluate(testMatchup, blendedWith(0.3125, 0.7), quote)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("edge above the minimum should qualify")
	}
	if rec.Edge <= params.MinEdge {
		t.Errorf("qualifying edge %f not above minimum", rec.Edge)
	}
}

func TestEvaluateRejectsImplausibleEdge(t *testing.T) {
	engine := NewEngine(DefaultParams(), quietLogger())
	quote := models.MarketQuote{Book: "fanduel", Market: models.MarketMoneyline, Side: models.SideHome, Price: 150}

	// Edge of 0.30 over the market is a model error, not free money.
	_, ok, err := engine.Evaluate(testMatchup, blendedWith(0.70, 0.9), quote)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("edge above the cap must not qualify")
	}
}

func TestEvaluateMonotoneInProbability(t *testing.T) {
	engine := NewEngine(DefaultParams(), quietLogger())
	quote := models.MarketQuote{Book: "fanduel", Market: models.MarketMoneyline, Side: models.SideHome, Price: 110}

	var prevEdge, prevEV, prevROI float64
	first := true
	for p := 0.50; p <= 0.60; p += 0.01 {
		rec, ok, err := engine.Evaluate(testMatchup, blendedWith(p, 0.7), quote)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			continue
		}
		if !first {
			if rec.Edge <= prevEdge || rec.EV <= prevEV || rec.ROI <= prevROI {
				t.Fatalf("edge/EV/ROI not increasing in probability at p=%f", p)
			}
		}
		prevEdge, prevEV, prevROI = rec.Edge, rec.EV, rec.ROI
		first = false
	}
	if first {
		t.Fatal("no bet qualified across the probability sweep")
	}
}

func TestEvaluateGameConfidenceGate(t *testing.T) {
	engine := NewEngine(DefaultParams(), quietLogger())
	quotes := []models.MarketQuote{
		{Book: "fanduel", Market: models.MarketMoneyline, Side: models.SideHome, Price: 120},
	}

	if got := engine.EvaluateGame(testMatchup, blendedWith(0.58, 0.2), quotes); got != nil {
		t.Errorf("confidence below the gate should produce no bets, got %d", len(got))
	}
	if got := engine.EvaluateGame(testMatchup, blendedWith(0.58, 0.7), quotes); len(got) != 1 {
		t.Errorf("expected 1 bet, got %d", len(got))
	}
}

func TestEvaluateGameConservative(t *testing.T) {
	params := DefaultParams()
	params.Conservative = true
	engine := NewEngine(params, quietLogger())

	blended := blendedWith(0.58, 0.7)
	blended.HomeCoverProb = 0.65
	blended.AwayCoverProb = 0.35

	quotes := []models.MarketQuote{
		{Book: "fanduel", Market: models.MarketMoneyline, Side: models.SideHome, Price: 120},
		{Book: "fanduel", Market: models.MarketSpread, Side: models.SideHome, Price: 120, Point: floatPtr(-1.5)},
	}

	recs := engine.EvaluateGame(testMatchup, blended, quotes)
	if len(recs) != 1 {
		t.Fatalf("expected spreads to be skipped, got %d recs", len(recs))
	}
	if recs[0].Market != models.MarketMoneyline {
		t.Errorf("surviving rec market = %s", recs[0].Market)
	}

	// Conservative raises the confidence bar to 0.5.
	if got := engine.EvaluateGame(testMatchup, blendedWith(0.58, 0.4), quotes); got != nil {
		t.Errorf("confidence 0.4 should not clear the conservative gate")
	}
}

func TestEvaluateGameSkipsMalformedQuote(t *testing.T) {
	engine := NewEngine(DefaultParams(), quietLogger())
	quotes := []models.MarketQuote{
		{Book: "badbook", Market: models.MarketMoneyline, Side: models.SideHome, Price: 0},
		{Book: "fanduel", Market: models.MarketMoneyline, Side: models.SideHome, Price: 120},
	}

	recs := engine.EvaluateGame(testMatchup, blendedWith(0.58, 0.7), quotes)
	if len(recs) != 1 {
		t.Fatalf("malformed quote should be contained, got %d recs", len(recs))
	}
	if recs[0].Book != "fanduel" {
		t.Errorf("surviving rec book = %s", recs[0].Book)
	}
}

func TestPickLabels(t *testing.T) {
	tests := []struct {
		name  string
		quote models.MarketQuote
		want  string
	}{
		{
			name:  "Home moneyline",
			quote: models.MarketQuote{Market: models.MarketMoneyline, Side: models.SideHome},
			want:  "TOR ML",
		},
		{
			name:  "Away moneyline",
			quote: models.MarketQuote{Market: models.MarketMoneyline, Side: models.SideAway},
			want:  "MTL ML",
		},
		{
			name:  "Home puck line",
			quote: models.MarketQuote{Market: models.MarketSpread, Side: models.SideHome, Point: floatPtr(-1.5)},
			want:  "TOR -1.5",
		},
		{
			name:  "Away puck line",
			quote: models.MarketQuote{Market: models.MarketSpread, Side: models.SideAway, Point: floatPtr(1.5)},
			want:  "MTL +1.5",
		},
		{
			name:  "Over",
			quote: models.MarketQuote{Market: models.MarketTotal, Side: models.SideOver, Point: floatPtr(6.5)},
			want:  "Over 6.5",
		},
		{
			name:  "Under",
			quote: models.MarketQuote{Market: models.MarketTotal, Side: models.SideUnder, Point: floatPtr(6.5)},
			want:  "Under 6.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickLabel(testMatchup, tt.quote); got != tt.want {
				t.Errorf("pickLabel = %q, want %q", got, tt.want)
			}
		})
	}
}
