package oddsmath

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/puckline/internal/models"
)

// Normalizer folds every book's quotes for a matchup into a de-vigged
// MarketForecast. Per-book failures are contained: a bad quote drops that
// book's market pair, never the matchup.
type Normalizer struct {
	logger *logrus.Logger
}

// NewNormalizer creates a Normalizer. A nil logger is replaced with a default.
func NewNormalizer(logger *logrus.Logger) *Normalizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Normalizer{logger: logger}
}

type sidePair struct {
	a, b models.Side
}

var marketSides = map[models.MarketType]sidePair{
	models.MarketMoneyline: {models.SideHome, models.SideAway},
	models.MarketTotal:     {models.SideOver, models.SideUnder},
	models.MarketSpread:    {models.SideHome, models.SideAway},
}

// Normalize builds the market consensus from all quotes for one matchup.
// Each book contributes a de-vigged pair per market; fair probabilities are
// averaged across books. One-sided quotes carry vig with no counter-line to
// strip it against, so they enter the consensus only when no book quoted
// both sides, and such a market is flagged so the blender leaves it alone.
func (n *Normalizer) Normalize(matchup models.Matchup, quotes []models.MarketQuote) (models.MarketForecast, error) {
	forecast := models.MarketForecast{
		HomeWinProb:   0.5,
		AwayWinProb:   0.5,
		OverProb:      0.5,
		UnderProb:     0.5,
		HomeCoverProb: 0.5,
	}

	// fair probability of the market's first side, per book
	perMarket := map[models.MarketType][]float64{}
	// raw implied probabilities from books that quoted one side only
	rawOneSided := map[models.MarketType][]float64{}
	points := map[models.MarketType][]float64{}

	for book, markets := range groupByBookAndMarket(quotes) {
		for market, sides := range markets {
			pair := marketSides[market]
			quoteA, okA := sides[pair.a]
			quoteB, okB := sides[pair.b]

			switch {
			case okA && okB:
				fairA, _, err := DeVigQuotes(quoteA.Price, quoteB.Price)
				if err != nil {
					n.logger.WithFields(logrus.Fields{
						"game":   matchup.Label(),
						"book":   book,
						"market": market,
					}).WithError(err).Warn("Skipping market pair")
					continue
				}
				perMarket[market] = append(perMarket[market], fairA)
				collectPoint(points, market, quoteA)
			case okA || okB:
				// One-sided market: no counter-line to de-vig against.
				quote := quoteA
				if !okA {
					quote = quoteB
				}
				raw, err := AmericanToImplied(quote.Price)
				if err != nil {
					n.logger.WithFields(logrus.Fields{
						"game": matchup.Label(),
						"book": book,
					}).WithError(err).Warn("Skipping one-sided quote")
					continue
				}
				if quote.Side != pair.a {
					raw = 1.0 - raw
				}
				rawOneSided[market] = append(rawOneSided[market], raw)
				collectPoint(points, market, quote)
			}
		}
	}

	for _, market := range []models.MarketType{models.MarketMoneyline, models.MarketTotal, models.MarketSpread} {
		raws := rawOneSided[market]
		if len(raws) == 0 || len(perMarket[market]) > 0 {
			continue
		}
		perMarket[market] = raws
		forecast.UnblendedMarkets = append(forecast.UnblendedMarkets, market)
	}
	forecast.Unblended = len(forecast.UnblendedMarkets) > 0

	forecast.TotalLine = consensusPoint(points[models.MarketTotal])
	forecast.SpreadLine = consensusPoint(points[models.MarketSpread])

	if len(perMarket) == 0 {
		return forecast, errors.New("no usable quotes for matchup")
	}

	if probs := perMarket[models.MarketMoneyline]; len(probs) > 0 {
		forecast.HomeWinProb = mean(probs)
		forecast.AwayWinProb = 1.0 - forecast.HomeWinProb
		forecast.BooksML = len(probs)
	}
	if probs := perMarket[models.MarketTotal]; len(probs) > 0 {
		forecast.OverProb = mean(probs)
		forecast.UnderProb = 1.0 - forecast.OverProb
		forecast.BooksTotal = len(probs)
	}
	if probs := perMarket[models.MarketSpread]; len(probs) > 0 {
		forecast.HomeCoverProb = mean(probs)
		forecast.BooksSpread = len(probs)
	}

	return forecast, nil
}

// collectPoint gathers each book's quoted line so the consensus line can be
// chosen across books. Spread lines are kept home-relative.
func collectPoint(points map[models.MarketType][]float64, market models.MarketType, quote models.MarketQuote) {
	if !quote.HasPoint() {
		return
	}
	switch market {
	case models.MarketTotal:
		points[market] = append(points[market], *quote.Point)
	case models.MarketSpread:
		if quote.Side == models.SideHome {
			points[market] = append(points[market], *quote.Point)
		}
	}
}

// consensusPoint picks the line most books agree on; a tie goes to the
// lowest line. The choice depends only on the multiset of quoted lines,
// never on book iteration order.
func consensusPoint(points []float64) *float64 {
	if len(points) == 0 {
		return nil
	}
	counts := make(map[float64]int, len(points))
	for _, p := range points {
		counts[p]++
	}
	best := points[0]
	bestCount := 0
	for p, c := range counts {
		if c > bestCount || (c == bestCount && p < best) {
			best, bestCount = p, c
		}
	}
	return &best
}

func groupByBookAndMarket(quotes []models.MarketQuote) map[string]map[models.MarketType]map[models.Side]models.MarketQuote {
	grouped := make(map[string]map[models.MarketType]map[models.Side]models.MarketQuote)
	for _, q := range quotes {
		if _, ok := grouped[q.Book]; !ok {
			grouped[q.Book] = make(map[models.MarketType]map[models.Side]models.MarketQuote)
		}
		if _, ok := grouped[q.Book][q.Market]; !ok {
			grouped[q.Book][q.Market] = make(map[models.Side]models.MarketQuote)
		}
		grouped[q.Book][q.Market][q.Side] = q
	}
	return grouped
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
