package blend

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/puckline/internal/models"
)

// errOneSided marks a market whose consensus was never de-vigged; its
// probability still carries the book's vig and cannot be blended as fair.
var errOneSided = errors.New("one-sided consensus, no fair counterprice")

// The market is generally efficient, so the model never carries more than
// BaseModelWeight of the blend even at full confidence. Conservative runs
// halve that ceiling.
const (
	BaseModelWeight    = 0.35
	conservativeFactor = 0.5

	// A probability pair further than this from summing to 1 is treated as
	// incompatible rather than silently renormalized.
	pairTolerance = 1e-6
)

// Blender combines the model forecast with the market consensus for one
// matchup, weighted by model confidence.
type Blender struct {
	baseWeight   float64
	conservative bool
	logger       *logrus.Logger
}

// NewBlender creates a Blender. A non-positive base weight gets the default;
// conservative halves the model's maximum share of the blend.
func NewBlender(baseWeight float64, conservative bool, logger *logrus.Logger) *Blender {
	if baseWeight <= 0 {
		baseWeight = BaseModelWeight
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Blender{baseWeight: baseWeight, conservative: conservative, logger: logger}
}

// ModelWeight returns the effective weight the model forecast carries at the
// given confidence.
func (b *Blender) ModelWeight(confidence float64) float64 {
	weight := b.baseWeight
	if b.conservative {
		weight *= conservativeFactor
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return weight * confidence
}

// Blend merges model and market probabilities market by market. A market
// whose model or market pair is malformed, or whose consensus was never
// de-vigged, is dropped from the blend and recorded on the forecast; only
// when every market drops does Blend fail with ErrIncompatibleForecast.
func (b *Blender) Blend(matchup models.Matchup, model models.ModelForecast, market models.MarketForecast) (models.BlendedForecast, error) {
	weight := b.ModelWeight(model.Confidence)

	blended := models.BlendedForecast{
		HomeWinProb:   0.5,
		AwayWinProb:   0.5,
		OverProb:      0.5,
		UnderProb:     0.5,
		HomeCoverProb: 0.5,
		AwayCoverProb: 0.5,
		ExpectedTotal: model.ExpectedTotal,
		TotalLine:     market.TotalLine,
		Confidence:    model.Confidence,
		ModelWeight:   weight,
	}
	if blended.TotalLine == nil {
		blended.TotalLine = model.TotalLine
	}

	if market.MarketUnblended(models.MarketMoneyline) {
		b.skipMarket(&blended, matchup, models.MarketMoneyline, errOneSided)
	} else if home, away, err := blendPair(weight, model.HomeWinProb, model.AwayWinProb, market.HomeWinProb, market.AwayWinProb); err != nil {
		b.skipMarket(&blended, matchup, models.MarketMoneyline, err)
	} else {
		blended.HomeWinProb, blended.AwayWinProb = home, away
	}

	if market.MarketUnblended(models.MarketTotal) {
		b.skipMarket(&blended, matchup, models.MarketTotal, errOneSided)
	} else if over, under, err := blendPair(weight, model.OverProb, model.UnderProb, market.OverProb, market.UnderProb); err != nil {
		b.skipMarket(&blended, matchup, models.MarketTotal, err)
	} else {
		blended.OverProb, blended.UnderProb = over, under
	}

	if market.MarketUnblended(models.MarketSpread) {
		b.skipMarket(&blended, matchup, models.MarketSpread, errOneSided)
	} else if cover, fade, err := blendPair(weight, model.HomeCoverProb, model.AwayCoverProb, market.HomeCoverProb, 1-market.HomeCoverProb); err != nil {
		b.skipMarket(&blended, matchup, models.MarketSpread, err)
	} else {
		blended.HomeCoverProb, blended.AwayCoverProb = cover, fade
	}

	if len(blended.SkippedMarkets) == 3 {
		return blended, fmt.Errorf("%w: no blendable market for %s", models.ErrIncompatibleForecast, matchup.Label())
	}
	return blended, nil
}

func (b *Blender) skipMarket(blended *models.BlendedForecast, matchup models.Matchup, market models.MarketType, err error) {
	blended.SkippedMarkets = append(blended.SkippedMarkets, market)
	b.logger.WithFields(logrus.Fields{
		"game":   matchup.Label(),
		"market": market,
	}).WithError(err).Warn("Skipping market in blend")
}

// blendPair blends one two-sided market and renormalizes the result so the
// pair sums to exactly 1 despite floating rounding.
func blendPair(weight, modelA, modelB, marketA, marketB float64) (float64, float64, error) {
	for _, p := range []float64{modelA, modelB, marketA, marketB} {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return 0, 0, fmt.Errorf("%w: probability %v outside [0,1]", models.ErrIncompatibleForecast, p)
		}
	}
	if math.Abs(modelA+modelB-1) > pairTolerance || math.Abs(marketA+marketB-1) > pairTolerance {
		return 0, 0, fmt.Errorf("%w: probability pair does not sum to 1", models.ErrIncompatibleForecast)
	}

	a := weight*modelA + (1-weight)*marketA
	bb := weight*modelB + (1-weight)*marketB
	total := a + bb
	return a / total, bb / total, nil
}
