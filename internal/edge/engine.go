package edge

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/oddsmath"
)

// Params tunes bet qualification. Zero values are replaced by defaults.
type Params struct {
	// Stake is the flat amount evaluated per bet.
	Stake float64
	// MinEdge is the strict lower bound a bet's edge must exceed.
	MinEdge float64
	// MaxEdge discards edges so large they are more likely model error than
	// market error.
	MaxEdge float64
	// MinConfidence gates the whole matchup: below it no bet is evaluated.
	MinConfidence float64
	// Conservative raises the edge and confidence bars and skips spreads.
	Conservative bool
}

// DefaultParams returns the standard qualification tuning.
func DefaultParams() Params {
	return Params{
		Stake:         1.0,
		MinEdge:       0.02,
		MaxEdge:       0.15,
		MinConfidence: 0.3,
	}
}

const (
	conservativeMinEdge       = 0.03
	conservativeMinConfidence = 0.5
)

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Stake <= 0 {
		p.Stake = d.Stake
	}
	if p.MinEdge <= 0 {
		p.MinEdge = d.MinEdge
	}
	if p.MaxEdge <= 0 {
		p.MaxEdge = d.MaxEdge
	}
	if p.MinConfidence <= 0 {
		p.MinConfidence = d.MinConfidence
	}
	if p.Conservative {
		if p.MinEdge < conservativeMinEdge {
			p.MinEdge = conservativeMinEdge
		}
		if p.MinConfidence < conservativeMinConfidence {
			p.MinConfidence = conservativeMinConfidence
		}
	}
	return p
}

// Engine scores quoted lines against a blended forecast and emits a
// Recommendation for every bet that clears the edge gate. Evaluations share
// no mutable state, so one Engine serves concurrent matchups.
type Engine struct {
	params Params
	logger *logrus.Logger
}

// NewEngine creates an Engine with the given qualification tuning.
func NewEngine(params Params, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{params: params.withDefaults(), logger: logger}
}

// EvaluateGame scores every quote for a matchup against its blended
// forecast. Quotes that do not qualify simply produce nothing; only a
// malformed price is reported, and it never fails the matchup.
func (e *Engine) EvaluateGame(matchup models.Matchup, blended models.BlendedForecast, quotes []models.MarketQuote) []models.Recommendation {
	if blended.Confidence < e.params.MinConfidence {
		return nil
	}

	var recs []models.Recommendation
	for _, quote := range quotes {
		if e.params.Conservative && quote.Market == models.MarketSpread {
			continue
		}
		rec, ok, err := e.Evaluate(matchup, blended, quote)
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"game": matchup.Label(),
				"book": quote.Book,
			}).WithError(err).Warn("Skipping unpriceable quote")
			continue
		}
		if ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

// Evaluate scores a single quote. The second return value reports whether
// the bet qualifies; a false with nil error means the edge gate was not
// cleared, which is the normal case, not a failure.
func (e *Engine) Evaluate(matchup models.Matchup, blended models.BlendedForecast, quote models.MarketQuote) (models.Recommendation, bool, error) {
	trueProb, ok := blended.ProbForSide(quote.Market, quote.Side)
	if !ok {
		return models.Recommendation{}, false, nil
	}

	impliedProb, err := oddsmath.AmericanToImplied(quote.Price)
	if err != nil {
		return models.Recommendation{}, false, err
	}
	payout, err := oddsmath.PayoutPerUnit(quote.Price)
	if err != nil {
		return models.Recommendation{}, false, err
	}
	decimalOdds, err := oddsmath.AmericanToDecimal(quote.Price)
	if err != nil {
		return models.Recommendation{}, false, err
	}

	// The raw offered price is the baseline to beat, vig included.
	edge := trueProb - impliedProb
	if edge <= e.params.MinEdge || edge > e.params.MaxEdge {
		return models.Recommendation{}, false, nil
	}

	ev := e.params.Stake * (trueProb*payout - (1 - trueProb))
	roi := ev / e.params.Stake

	return models.Recommendation{
		Pick:        pickLabel(matchup, quote),
		Game:        matchup.Label(),
		BetType:     quote.Market.DisplayName(),
		Book:        quote.Book,
		Odds:        quote.Price,
		DecimalOdds: decimalOdds,
		Market:      quote.Market,
		Side:        quote.Side,
		Edge:        edge,
		TrueProb:    trueProb,
		ImpliedProb: impliedProb,
		EV:          ev,
		ROI:         roi,
		Stake:       e.params.Stake,
		Confidence:  blended.Confidence,
		Grade:       models.GradeForEdge(edge),
	}, true, nil
}

// pickLabel names the bet the way a slip would. Market dispatch is
// exhaustive over the closed MarketType set.
func pickLabel(matchup models.Matchup, quote models.MarketQuote) string {
	team := matchup.HomeTeam
	if quote.Side == models.SideAway {
		team = matchup.AwayTeam
	}

	switch quote.Market {
	case models.MarketMoneyline:
		return team + " ML"
	case models.MarketSpread:
		if quote.HasPoint() {
			return fmt.Sprintf("%s %+.1f", team, *quote.Point)
		}
		return team + " spread"
	case models.MarketTotal:
		label := "Over"
		if quote.Side == models.SideUnder {
			label = "Under"
		}
		if quote.HasPoint() {
			return fmt.Sprintf("%s %.1f", label, *quote.Point)
		}
		return label
	}
	return team
}
