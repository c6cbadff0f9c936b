package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/puckline/internal/models"
)

const (
	nhlSourceName    = "nhl_api"
	standingsCacheTT = 12 * time.Hour
)

// NHLClient implements GameSource against the public NHL stats API.
// Standings move slowly, so they are cached for half a day; scores and
// schedules are always fetched fresh.
type NHLClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	cache      *gocache.Cache
	logger     *logrus.Logger
}

// scoreboardResponse mirrors the /score/{date} payload.
type scoreboardResponse struct {
	Games []scoreboardGame `json:"games"`
}

type scoreboardGame struct {
	ID        int64        `json:"id"`
	GameState string       `json:"gameState"`
	GameType  int          `json:"gameType"`
	GameDate  string       `json:"gameDate"`
	HomeTeam  teamSnapshot `json:"homeTeam"`
	AwayTeam  teamSnapshot `json:"awayTeam"`
}

type teamSnapshot struct {
	Abbrev string `json:"abbrev"`
	Score  *int   `json:"score"`
}

// scheduleResponse mirrors the /schedule/{date} payload.
type scheduleResponse struct {
	GameWeek []scheduleDay `json:"gameWeek"`
}

type scheduleDay struct {
	Date  string         `json:"date"`
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	ID           int64        `json:"id"`
	StartTimeUTC string       `json:"startTimeUTC"`
	GameState    string       `json:"gameState"`
	HomeTeam     teamSnapshot `json:"homeTeam"`
	AwayTeam     teamSnapshot `json:"awayTeam"`
}

// standingsResponse mirrors the /standings/{date} payload.
type standingsResponse struct {
	Standings []standingRow `json:"standings"`
}

type standingRow struct {
	TeamAbbrev  localizedName `json:"teamAbbrev"`
	GamesPlayed int           `json:"gamesPlayed"`
	Wins        int           `json:"wins"`
	Losses      int           `json:"losses"`
	OTLosses    int           `json:"otLosses"`
	Points      int           `json:"points"`
	PointPctg   float64       `json:"pointPctg"`
	GoalFor     int           `json:"goalFor"`
	GoalAgainst int           `json:"goalAgainst"`
}

type localizedName struct {
	Default string `json:"default"`
}

// NewNHLClient creates a new NHL stats API client.
func NewNHLClient(httpClient *RateLimitedHTTPClient, baseURL string, logger *logrus.Logger) *NHLClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &NHLClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cache:      gocache.New(standingsCacheTT, 2*standingsCacheTT),
		logger:     logger,
	}
}

// FetchScores retrieves the scoreboard for a date.
func (c *NHLClient) FetchScores(ctx context.Context, date time.Time) ([]GameResult, error) {
	day := date.Format("2006-01-02")
	url := fmt.Sprintf("%s/score/%s", c.baseURL, day)

	var payload scoreboardResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	results := make([]GameResult, 0, len(payload.Games))
	for _, game := range payload.Games {
		if game.HomeTeam.Abbrev == "" || game.AwayTeam.Abbrev == "" {
			continue
		}
		gameDate, err := time.Parse("2006-01-02", game.GameDate)
		if err != nil {
			gameDate = date
		}
		result := GameResult{
			SourceID: game.ID,
			Date:     gameDate,
			State:    game.GameState,
			GameType: game.GameType,
			HomeTeam: game.HomeTeam.Abbrev,
			AwayTeam: game.AwayTeam.Abbrev,
		}
		if game.HomeTeam.Score != nil {
			result.HomeScore = *game.HomeTeam.Score
		}
		if game.AwayTeam.Score != nil {
			result.AwayScore = *game.AwayTeam.Score
		}
		results = append(results, result)
	}

	return results, nil
}

// FetchSchedule retrieves scheduled games for a date. The API returns the
// whole game week containing the date; rows are tagged with their own day.
func (c *NHLClient) FetchSchedule(ctx context.Context, date time.Time) ([]ScheduledGame, error) {
	day := date.Format("2006-01-02")
	url := fmt.Sprintf("%s/schedule/%s", c.baseURL, day)

	var payload scheduleResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	var games []ScheduledGame
	for _, weekDay := range payload.GameWeek {
		gameDate, err := time.Parse("2006-01-02", weekDay.Date)
		if err != nil {
			c.logger.WithField("date", weekDay.Date).Warn("Unparseable schedule date")
			continue
		}
		for _, game := range weekDay.Games {
			if game.HomeTeam.Abbrev == "" || game.AwayTeam.Abbrev == "" {
				continue
			}
			startTime, err := time.Parse(time.RFC3339, game.StartTimeUTC)
			if err != nil {
				startTime = gameDate
			}
			games = append(games, ScheduledGame{
				SourceID:  game.ID,
				Date:      gameDate,
				StartTime: startTime,
				State:     game.GameState,
				HomeTeam:  game.HomeTeam.Abbrev,
				AwayTeam:  game.AwayTeam.Abbrev,
			})
		}
	}

	return games, nil
}

// FetchStandings retrieves the league table as of a date.
func (c *NHLClient) FetchStandings(ctx context.Context, date time.Time) ([]models.Standing, error) {
	day := date.Format("2006-01-02")
	cacheKey := "standings:" + day
	if cached, found := c.cache.Get(cacheKey); found {
		c.logger.WithField("date", day).Debug("Returning cached standings")
		return cached.([]models.Standing), nil
	}

	url := fmt.Sprintf("%s/standings/%s", c.baseURL, day)

	var payload standingsResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	standings := make([]models.Standing, 0, len(payload.Standings))
	for _, row := range payload.Standings {
		if row.TeamAbbrev.Default == "" {
			continue
		}
		gp := row.GamesPlayed
		if gp < 1 {
			gp = 1
		}
		standings = append(standings, models.Standing{
			Team:           row.TeamAbbrev.Default,
			GamesPlayed:    row.GamesPlayed,
			Wins:           row.Wins,
			Losses:         row.Losses,
			OTLosses:       row.OTLosses,
			Points:         row.Points,
			PointsPct:      row.PointPctg,
			GoalsForPG:     float64(row.GoalFor) / float64(gp),
			GoalsAgainstPG: float64(row.GoalAgainst) / float64(gp),
			AsOf:           date,
		})
	}

	c.cache.Set(cacheKey, standings, gocache.DefaultExpiration)
	return standings, nil
}

// Name returns the data source name.
func (c *NHLClient) Name() string {
	return nhlSourceName
}

// getJSON performs a GET and decodes the response body, translating HTTP
// failures into the shared error taxonomy.
func (c *NHLClient) getJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return NewDataSourceError(nhlSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(nhlSourceName, ErrCodeNotFound, "resource not found", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(nhlSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewDataSourceError(nhlSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(nhlSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}
