package models

import (
	"time"

	"github.com/google/uuid"
)

// GameState values reported by the NHL schedule/score feeds.
const (
	GameStateFinal = "FINAL"
	GameStateOff   = "OFF"
)

// HistoricalGame is a completed game used as forecasting precedent.
// Immutable after ingestion.
type HistoricalGame struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SourceID  int64     `db:"source_id" json:"source_id"` // NHL API game ID
	Date      time.Time `db:"game_date" json:"date"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required,len=3"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required,len=3"`
	HomeScore int       `db:"home_score" json:"home_score" validate:"gte=0"`
	AwayScore int       `db:"away_score" json:"away_score" validate:"gte=0"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HomeWin reports whether the home side won.
func (g *HistoricalGame) HomeWin() bool {
	return g.HomeScore > g.AwayScore
}

// TotalGoals returns the combined final score.
func (g *HistoricalGame) TotalGoals() int {
	return g.HomeScore + g.AwayScore
}

// GoalDiff returns home score minus away score.
func (g *HistoricalGame) GoalDiff() int {
	return g.HomeScore - g.AwayScore
}

// Matchup is a scheduled game under forecast. Read-only downstream.
type Matchup struct {
	HomeTeam  string    `json:"home_team" validate:"required,len=3"`
	AwayTeam  string    `json:"away_team" validate:"required,len=3"`
	StartTime time.Time `json:"start_time"`
}

// Label returns the conventional "AWY @ HOM" game label.
func (m Matchup) Label() string {
	return m.AwayTeam + " @ " + m.HomeTeam
}
