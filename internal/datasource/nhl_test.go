package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, nil)
}

const scoreboardJSON = `{
	"games": [
		{
			"id": 2025020412,
			"gameState": "OFF",
			"gameType": 2,
			"gameDate": "2026-01-14",
			"homeTeam": {"abbrev": "TOR", "score": 4},
			"awayTeam": {"abbrev": "MTL", "score": 2}
		},
		{
			"id": 2025020413,
			"gameState": "LIVE",
			"gameType": 2,
			"gameDate": "2026-01-14",
			"homeTeam": {"abbrev": "EDM", "score": 1},
			"awayTeam": {"abbrev": "CGY", "score": 1}
		},
		{
			"id": 2025020414,
			"gameState": "FUT",
			"gameType": 2,
			"gameDate": "2026-01-14",
			"homeTeam": {"abbrev": "VAN"},
			"awayTeam": {"abbrev": "SEA"}
		}
	]
}`

func TestFetchScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/score/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(scoreboardJSON))
	}))
	defer server.Close()

	client := NewNHLClient(testHTTPClient(), server.URL, nil)
	results, err := client.FetchScores(context.Background(), time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 games, got %d", len(results))
	}

	final := results[0]
	if final.SourceID != 2025020412 {
		t.Errorf("expected source id 2025020412, got %d", final.SourceID)
	}
	if !final.Final() {
		t.Error("expected OFF game to be final")
	}
	if !final.RegularSeason() {
		t.Error("expected regular season game")
	}
	if final.HomeTeam != "TOR" || final.HomeScore != 4 || final.AwayScore != 2 {
		t.Errorf("unexpected result row: %+v", final)
	}

	if results[1].Final() {
		t.Error("LIVE game should not be final")
	}
	if results[2].HomeScore != 0 {
		t.Errorf("scoreless future game should default to 0, got %d", results[2].HomeScore)
	}
}

func TestFetchScoresServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewNHLClient(testHTTPClient(), server.URL, nil)
	_, err := client.FetchScores(context.Background(), time.Now())
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	dsErr, ok := err.(DataSourceError)
	if !ok {
		t.Fatalf("expected DataSourceError, got %T", err)
	}
	if dsErr.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, dsErr.Code)
	}
}

const scheduleJSON = `{
	"gameWeek": [
		{
			"date": "2026-01-14",
			"games": [
				{
					"id": 2025020415,
					"startTimeUTC": "2026-01-15T00:00:00Z",
					"gameState": "FUT",
					"homeTeam": {"abbrev": "TOR"},
					"awayTeam": {"abbrev": "MTL"}
				}
			]
		},
		{
			"date": "2026-01-15",
			"games": []
		}
	]
}`

func TestFetchSchedule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(scheduleJSON))
	}))
	defer server.Close()

	client := NewNHLClient(testHTTPClient(), server.URL, nil)
	games, err := client.FetchSchedule(context.Background(), time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 scheduled game, got %d", len(games))
	}

	game := games[0]
	if game.Date.Format("2006-01-02") != "2026-01-14" {
		t.Errorf("unexpected game date %v", game.Date)
	}
	if game.StartTime.Hour() != 0 || game.StartTime.Day() != 15 {
		t.Errorf("unexpected start time %v", game.StartTime)
	}

	matchup := game.Matchup()
	if matchup.Label() != "MTL @ TOR" {
		t.Errorf("unexpected matchup label %s", matchup.Label())
	}
}

const standingsJSON = `{
	"standings": [
		{
			"teamAbbrev": {"default": "TOR"},
			"gamesPlayed": 44,
			"wins": 28,
			"losses": 12,
			"otLosses": 4,
			"points": 60,
			"pointPctg": 0.682,
			"goalFor": 154,
			"goalAgainst": 121
		},
		{
			"teamAbbrev": {"default": ""},
			"gamesPlayed": 10
		}
	]
}`

func TestFetchStandings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(standingsJSON))
	}))
	defer server.Close()

	client := NewNHLClient(testHTTPClient(), server.URL, nil)
	asOf := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)
	standings, err := client.FetchStandings(context.Background(), asOf)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(standings) != 1 {
		t.Fatalf("expected 1 standing (blank team dropped), got %d", len(standings))
	}

	tor := standings[0]
	if tor.Team != "TOR" || tor.Points != 60 {
		t.Errorf("unexpected standing %+v", tor)
	}
	if got, want := tor.GoalsForPG, 154.0/44.0; got != want {
		t.Errorf("expected goals for per game %f, got %f", want, got)
	}
	if !tor.AsOf.Equal(asOf) {
		t.Errorf("expected as_of %v, got %v", asOf, tor.AsOf)
	}
}

func TestFetchStandingsCached(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(standingsJSON))
	}))
	defer server.Close()

	client := NewNHLClient(testHTTPClient(), server.URL, nil)
	asOf := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := client.FetchStandings(context.Background(), asOf); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected 1 upstream request, got %d", got)
	}
}
