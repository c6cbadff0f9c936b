package datasource

import (
	"context"
	"time"

	"github.com/yourusername/puckline/internal/models"
)

// GameSource defines the interface for fetching league data from the stats provider
type GameSource interface {
	// FetchScores retrieves final and in-progress game results for a date
	FetchScores(ctx context.Context, date time.Time) ([]GameResult, error)

	// FetchSchedule retrieves the scheduled games for a date
	FetchSchedule(ctx context.Context, date time.Time) ([]ScheduledGame, error)

	// FetchStandings retrieves the league table as of a date
	FetchStandings(ctx context.Context, date time.Time) ([]models.Standing, error)

	// Name returns the name of the data source
	Name() string
}

// OddsSource defines the interface for fetching betting markets
type OddsSource interface {
	// FetchOdds retrieves current odds for all upcoming games
	FetchOdds(ctx context.Context) ([]GameOdds, error)

	// Name returns the name of the data source
	Name() string
}

// Regular-season game type code in the stats feed.
const gameTypeRegularSeason = 2

// GameResult is a normalized scoreboard row from the stats provider.
type GameResult struct {
	SourceID  int64     `json:"source_id"` // provider's game ID
	Date      time.Time `json:"date"`
	State     string    `json:"state"` // e.g. "OFF", "FINAL", "LIVE"
	GameType  int       `json:"game_type"`
	HomeTeam  string    `json:"home_team"` // three-letter abbreviation
	AwayTeam  string    `json:"away_team"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
}

// Final reports whether the game has a settled result.
func (g GameResult) Final() bool {
	return g.State == models.GameStateFinal || g.State == models.GameStateOff
}

// RegularSeason reports whether the game counts toward the corpus.
func (g GameResult) RegularSeason() bool {
	return g.GameType == gameTypeRegularSeason
}

// ScheduledGame is a normalized schedule row from the stats provider.
type ScheduledGame struct {
	SourceID  int64     `json:"source_id"`
	Date      time.Time `json:"date"`
	StartTime time.Time `json:"start_time"`
	State     string    `json:"state"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
}

// Matchup converts a schedule row into the forecasting input.
func (g ScheduledGame) Matchup() models.Matchup {
	return models.Matchup{
		HomeTeam:  g.HomeTeam,
		AwayTeam:  g.AwayTeam,
		StartTime: g.StartTime,
	}
}

// GameOdds holds every bookmaker quote fetched for one upcoming game.
type GameOdds struct {
	Matchup      models.Matchup       `json:"matchup"`
	CommenceTime time.Time            `json:"commence_time"`
	Quotes       []models.MarketQuote `json:"quotes"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// NewDataSourceError creates a new data source error.
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
