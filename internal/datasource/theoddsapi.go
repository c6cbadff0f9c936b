package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/puckline/internal/metrics"
	"github.com/yourusername/puckline/internal/models"
)

const oddsSourceName = "the_odds_api"

// OddsClientConfig holds the odds provider settings.
type OddsClientConfig struct {
	BaseURL  string
	APIKey   string
	SportKey string
	Regions  []string
	Markets  []string
	CacheTTL time.Duration
}

// OddsClient implements OddsSource against The Odds API. Responses are
// cached because the free tier meters requests per month.
type OddsClient struct {
	httpClient *RateLimitedHTTPClient
	config     OddsClientConfig
	cache      *gocache.Cache
	logger     *logrus.Logger
}

// oddsEvent mirrors one game in the /sports/{sport}/odds payload.
type oddsEvent struct {
	ID           string          `json:"id"`
	CommenceTime time.Time       `json:"commence_time"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Bookmakers   []oddsBookmaker `json:"bookmakers"`
}

type oddsBookmaker struct {
	Key     string       `json:"key"`
	Title   string       `json:"title"`
	Markets []oddsMarket `json:"markets"`
}

type oddsMarket struct {
	Key      string        `json:"key"`
	Outcomes []oddsOutcome `json:"outcomes"`
}

type oddsOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"` // American odds arrive as JSON numbers
	Point *float64 `json:"point,omitempty"`
}

// NewOddsClient creates a new odds provider client.
func NewOddsClient(httpClient *RateLimitedHTTPClient, cfg OddsClientConfig, logger *logrus.Logger) *OddsClient {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	return &OddsClient{
		httpClient: httpClient,
		config:     cfg,
		cache:      gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:     logger,
	}
}

// FetchOdds retrieves current odds for all upcoming games, serving from
// cache when a fresh response exists.
func (c *OddsClient) FetchOdds(ctx context.Context) ([]GameOdds, error) {
	cacheKey := c.cacheKey()
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]GameOdds), nil
	}

	if c.config.APIKey == "" {
		return nil, NewDataSourceError(oddsSourceName, ErrCodeAuthenticationFailed, "odds API key is not configured", nil)
	}

	query := url.Values{}
	query.Set("apiKey", c.config.APIKey)
	query.Set("regions", strings.Join(c.config.Regions, ","))
	query.Set("markets", strings.Join(c.config.Markets, ","))
	query.Set("oddsFormat", "american")

	reqURL := fmt.Sprintf("%s/sports/%s/odds?%s", c.config.BaseURL, c.config.SportKey, query.Encode())

	resp, err := c.httpClient.Get(ctx, reqURL)
	if err != nil {
		return nil, NewDataSourceError(oddsSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	metrics.RecordOddsAPIRequest()
	c.recordQuota(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, NewDataSourceError(oddsSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(oddsSourceName, ErrCodeRateLimitExceeded, "monthly request quota exhausted", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(oddsSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var events []oddsEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, NewDataSourceError(oddsSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	games := make([]GameOdds, 0, len(events))
	for _, event := range events {
		game, ok := c.convertEvent(event)
		if !ok {
			continue
		}
		games = append(games, game)
	}

	c.cache.Set(cacheKey, games, gocache.DefaultExpiration)
	return games, nil
}

// Name returns the data source name.
func (c *OddsClient) Name() string {
	return oddsSourceName
}

func (c *OddsClient) cacheKey() string {
	return "odds_" + c.config.SportKey + "_" + strings.Join(c.config.Markets, "_")
}

// recordQuota surfaces the provider's metering headers as gauges.
func (c *OddsClient) recordQuota(resp *http.Response) {
	remaining := resp.Header.Get("x-requests-remaining")
	if remaining == "" {
		return
	}
	value, err := strconv.ParseFloat(remaining, 64)
	if err != nil {
		return
	}
	metrics.UpdateOddsAPIQuota(value)
	c.logger.WithFields(logrus.Fields{
		"requests_remaining": remaining,
		"requests_used":      resp.Header.Get("x-requests-used"),
	}).Debug("Odds API quota")
}

// convertEvent flattens one event's bookmaker tree into per-book quotes.
func (c *OddsClient) convertEvent(event oddsEvent) (GameOdds, bool) {
	home := TeamAbbrev(event.HomeTeam)
	away := TeamAbbrev(event.AwayTeam)
	if len(home) != 3 || len(away) != 3 {
		c.logger.WithFields(logrus.Fields{
			"home_team": event.HomeTeam,
			"away_team": event.AwayTeam,
		}).Warn("Skipping game with unmapped team names")
		return GameOdds{}, false
	}

	game := GameOdds{
		Matchup: models.Matchup{
			HomeTeam:  home,
			AwayTeam:  away,
			StartTime: event.CommenceTime,
		},
		CommenceTime: event.CommenceTime,
	}

	for _, book := range event.Bookmakers {
		for _, market := range book.Markets {
			marketType, ok := marketTypeForKey(market.Key)
			if !ok {
				continue
			}
			for _, outcome := range market.Outcomes {
				side, ok := sideForOutcome(marketType, outcome.Name, event.HomeTeam, event.AwayTeam)
				if !ok {
					continue
				}
				game.Quotes = append(game.Quotes, models.MarketQuote{
					Book:   book.Key,
					Market: marketType,
					Side:   side,
					Price:  int(outcome.Price),
					Point:  outcome.Point,
				})
			}
		}
	}

	return game, len(game.Quotes) > 0
}

// marketTypeForKey maps the provider's market keys onto the internal set.
func marketTypeForKey(key string) (models.MarketType, bool) {
	switch key {
	case "h2h":
		return models.MarketMoneyline, true
	case "totals":
		return models.MarketTotal, true
	case "spreads":
		return models.MarketSpread, true
	}
	return "", false
}

// sideForOutcome resolves which side of the market an outcome prices. The
// provider names moneyline and spread outcomes by full team name.
func sideForOutcome(market models.MarketType, name, homeTeam, awayTeam string) (models.Side, bool) {
	switch market {
	case models.MarketMoneyline, models.MarketSpread:
		switch name {
		case homeTeam:
			return models.SideHome, true
		case awayTeam:
			return models.SideAway, true
		}
	case models.MarketTotal:
		switch name {
		case "Over":
			return models.SideOver, true
		case "Under":
			return models.SideUnder, true
		}
	}
	return "", false
}
