package snapshot

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/puckline/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "latest.json")

	snap := &Snapshot{
		Timestamp: time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC),
		Stake:     0.5,
		GamesAnalyzed: []GameAnalysis{
			{
				Game:         "MTL @ TOR",
				Home:         "TOR",
				Away:         "MTL",
				ModelProbs:   ProbGroup{HomeWinProb: 0.61, AwayWinProb: 0.39, ExpectedTotal: 6.4, Confidence: 0.7},
				MarketProbs:  MarketView{HomeWinProb: 0.55, AwayWinProb: 0.45},
				BlendedProbs: ProbGroup{HomeWinProb: 0.565, AwayWinProb: 0.435, ExpectedTotal: 6.4, Confidence: 0.7},
				SimilarGames: 32,
				BetCount:     1,
			},
		},
		Recommendations: []models.Recommendation{
			{Pick: "TOR ML", Game: "MTL @ TOR", BetType: "Moneyline", Book: "fanduel", Odds: 120, Edge: 0.11},
		},
	}

	if err := NewWriter(path, quietLogger()).Write(snap); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("snapshot not readable: %v", err)
	}

	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("snapshot not valid JSON: %v", err)
	}
	if !got.Timestamp.Equal(snap.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, snap.Timestamp)
	}
	if len(got.GamesAnalyzed) != 1 || got.GamesAnalyzed[0].BetCount != 1 {
		t.Errorf("games round trip mismatch: %+v", got.GamesAnalyzed)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0].Pick != "TOR ML" {
		t.Errorf("recommendations round trip mismatch: %+v", got.Recommendations)
	}

	// JSON field names are the published contract.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"timestamp", "stake", "games_analyzed", "recommendations"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("snapshot missing %q key", key)
		}
	}
}

func TestWriterReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latest.json")
	w := NewWriter(path, quietLogger())

	first := &Snapshot{Timestamp: time.Now().UTC(), Stake: 1.0}
	if err := w.Write(first); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	second := &Snapshot{Timestamp: time.Now().UTC(), Stake: 2.0}
	if err := w.Write(second); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Stake != 2.0 {
		t.Errorf("Stake = %f, want the replacing snapshot", got.Stake)
	}

	// No stray staging files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want just the snapshot", len(entries))
	}
}
