package forecast

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/puckline/internal/models"
)

// Params tunes neighbor selection. Zero values are replaced by defaults.
type Params struct {
	// MinSimilarity is the score cutoff below which a historical game is not
	// considered precedent.
	MinSimilarity float64
	// MaxNeighbors caps how many of the best-scoring games are aggregated.
	MaxNeighbors int
	// MinNeighbors is the count below which confidence collapses toward 0.
	MinNeighbors int
}

// DefaultParams returns the standard neighbor-selection tuning.
func DefaultParams() Params {
	return Params{
		MinSimilarity: 0.55,
		MaxNeighbors:  50,
		MinNeighbors:  5,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.MinSimilarity <= 0 {
		p.MinSimilarity = d.MinSimilarity
	}
	if p.MaxNeighbors <= 0 {
		p.MaxNeighbors = d.MaxNeighbors
	}
	if p.MinNeighbors <= 0 {
		p.MinNeighbors = d.MinNeighbors
	}
	return p
}

// Confidence shaping. Quality of the closest matches carries the most,
// volume of strong matches and exact-rematch history add bonuses, and the
// result is hard-capped below certainty.
const (
	qualityConfCap   = 0.5
	qualityConfScale = 0.55
	volumeConfCap    = 0.3
	volumeConfScale  = 25.0
	exactConfCap     = 0.2
	exactConfScale   = 5.0
	maxConfidence    = 0.95

	highSimilarityThreshold = 0.75
	topMatchesForQuality    = 5

	// Spread outcomes are noisier than moneylines, so their regression to
	// the mean keeps only a fraction of the confidence.
	spreadConfidenceFactor = 0.6

	// Ceiling applied when fewer than MinNeighbors precedents exist.
	sparseConfidenceCap = 0.1

	neutralProb          = 0.5
	neutralExpectedTotal = 6.0
)

// Forecaster estimates outcome probabilities for a matchup from its most
// similar historical games.
type Forecaster struct {
	metric Metric
	params Params
	logger *logrus.Logger
}

// NewForecaster creates a Forecaster. A nil metric gets the default weighted
// metric; a nil logger gets a default logger.
func NewForecaster(metric Metric, params Params, logger *logrus.Logger) *Forecaster {
	if metric == nil {
		metric = NewWeightedMetric()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Forecaster{metric: metric, params: params.withDefaults(), logger: logger}
}

type scoredGame struct {
	game       models.HistoricalGame
	similarity float64
}

// Forecast produces the model's probability estimate for one matchup. It
// never fails: a matchup with no usable precedent yields a neutral forecast
// with confidence 0, leaving downstream blending to defer to the market.
// Lines may be nil when the market does not quote them.
func (f *Forecaster) Forecast(matchup models.Matchup, corpus *Corpus, totalLine, spreadLine *float64) models.ModelForecast {
	neighbors := f.findSimilar(matchup, corpus)

	f.logger.WithFields(logrus.Fields{
		"game":       matchup.Label(),
		"n_similar":  len(neighbors),
		"corpus":     corpus.Size(),
		"total_line": totalLine,
	}).Debug("Selected similar games")

	return f.estimate(matchup, neighbors, totalLine, spreadLine)
}

// findSimilar scans the corpus and returns the best-scoring games above the
// similarity cutoff, capped at MaxNeighbors. Ordering is deterministic:
// similarity descending, then most recent first, then source ID.
func (f *Forecaster) findSimilar(matchup models.Matchup, corpus *Corpus) []scoredGame {
	home := corpus.ProfileFor(matchup.HomeTeam)
	away := corpus.ProfileFor(matchup.AwayTeam)

	scored := make([]scoredGame, 0, f.params.MaxNeighbors)
	for _, game := range corpus.Games {
		histHome := corpus.ProfileFor(game.HomeTeam)
		histAway := corpus.ProfileFor(game.AwayTeam)

		similarity := f.metric.Similarity(matchup, home, away, game, histHome, histAway)
		if similarity >= f.params.MinSimilarity {
			scored = append(scored, scoredGame{game: game, similarity: similarity})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].similarity != scored[j].similarity {
			return scored[i].similarity > scored[j].similarity
		}
		if !scored[i].game.Date.Equal(scored[j].game.Date) {
			return scored[i].game.Date.After(scored[j].game.Date)
		}
		return scored[i].game.SourceID < scored[j].game.SourceID
	})

	if len(scored) > f.params.MaxNeighbors {
		scored = scored[:f.params.MaxNeighbors]
	}
	return scored
}

func (f *Forecaster) estimate(matchup models.Matchup, neighbors []scoredGame, totalLine, spreadLine *float64) models.ModelForecast {
	if len(neighbors) == 0 {
		return models.ModelForecast{
			HomeWinProb:   neutralProb,
			AwayWinProb:   neutralProb,
			ExpectedTotal: neutralExpectedTotal,
			OverProb:      neutralProb,
			UnderProb:     neutralProb,
			HomeCoverProb: neutralProb,
			AwayCoverProb: neutralProb,
			TotalLine:     totalLine,
			SpreadLine:    spreadLine,
		}
	}

	var (
		totalWeight   float64
		homeWins      float64
		totalGoals    float64
		overs         float64
		homeCovers    float64
		sumSimilarity float64
	)

	for _, n := range neighbors {
		// Squared similarity emphasizes the closest precedents.
		weight := n.similarity * n.similarity
		totalWeight += weight
		sumSimilarity += n.similarity

		if n.game.HomeWin() {
			homeWins += weight
		}

		goals := float64(n.game.TotalGoals())
		totalGoals += weight * goals

		if totalLine != nil {
			switch {
			case goals > *totalLine:
				overs += weight
			case goals == *totalLine:
				overs += weight * 0.5 // push
			}
		}

		if spreadLine != nil {
			margin := float64(n.game.GoalDiff()) + *spreadLine
			switch {
			case margin > 0:
				homeCovers += weight
			case margin == 0:
				homeCovers += weight * 0.5 // push
			}
		}
	}

	homeWinProb := homeWins / totalWeight
	expectedTotal := totalGoals / totalWeight

	// Without a quoted line, evaluate over/under against the nearest half
	// goal of the expected total; pushes count half.
	var overProb float64
	if totalLine == nil {
		line := math.Round(expectedTotal*2) / 2
		totalLine = &line
		var overCount, pushCount float64
		for _, n := range neighbors {
			goals := float64(n.game.TotalGoals())
			switch {
			case goals > line:
				overCount++
			case goals == line:
				pushCount++
			}
		}
		overProb = (overCount + pushCount*0.5) / float64(len(neighbors))
	} else {
		overProb = overs / totalWeight
	}

	homeCoverProb := neutralProb
	if spreadLine != nil {
		homeCoverProb = homeCovers / totalWeight
	}

	confidence := f.confidence(matchup, neighbors)

	// Regression to the mean: low confidence pulls every estimate back
	// toward a coin flip. Spreads regress harder.
	regressedHome := regress(homeWinProb, confidence)
	regressedOver := regress(overProb, confidence)
	regressedCover := regress(homeCoverProb, confidence*spreadConfidenceFactor)

	return models.ModelForecast{
		HomeWinProb:   regressedHome,
		AwayWinProb:   1 - regressedHome,
		ExpectedTotal: expectedTotal,
		OverProb:      regressedOver,
		UnderProb:     1 - regressedOver,
		HomeCoverProb: regressedCover,
		AwayCoverProb: 1 - regressedCover,
		TotalLine:     totalLine,
		SpreadLine:    spreadLine,
		Confidence:    confidence,
		SimilarGames:  len(neighbors),
		AvgSimilarity: sumSimilarity / float64(len(neighbors)),
	}
}

// confidence scores how much the neighbor set should be trusted. It is
// non-decreasing in the neighbor count: extra neighbors can only raise the
// volume and exact-rematch terms and never lower the top-match quality term.
func (f *Forecaster) confidence(matchup models.Matchup, neighbors []scoredGame) float64 {
	topN := topMatchesForQuality
	if len(neighbors) < topN {
		topN = len(neighbors)
	}
	var topSum float64
	for _, n := range neighbors[:topN] {
		topSum += n.similarity
	}
	topAvg := topSum / float64(topN)

	var highSim, exact float64
	for _, n := range neighbors {
		if n.similarity > highSimilarityThreshold {
			highSim++
		}
		if n.game.HomeTeam == matchup.HomeTeam && n.game.AwayTeam == matchup.AwayTeam {
			exact++
		}
	}

	confidence := math.Min(qualityConfCap, topAvg*qualityConfScale) +
		math.Min(volumeConfCap, highSim/volumeConfScale) +
		math.Min(exactConfCap, exact/exactConfScale)
	confidence = math.Min(maxConfidence, confidence)

	// Too little precedent: force confidence near 0 so the blend defers to
	// the market, without failing the forecast. The ceiling grows with the
	// neighbor count, keeping confidence non-decreasing in it.
	if n := len(neighbors); n < f.params.MinNeighbors {
		ceiling := sparseConfidenceCap * float64(n) / float64(f.params.MinNeighbors)
		confidence = math.Min(confidence, ceiling)
	}
	return confidence
}

func regress(prob, confidence float64) float64 {
	return prob*confidence + neutralProb*(1-confidence)
}
