package models

// ModelForecast is the similarity forecaster's output for one matchup.
// Recomputed every run, never persisted.
type ModelForecast struct {
	HomeWinProb   float64  `json:"home_win_prob" validate:"gte=0,lte=1"`
	AwayWinProb   float64  `json:"away_win_prob" validate:"gte=0,lte=1"`
	ExpectedTotal float64  `json:"expected_total"`
	OverProb      float64  `json:"over_prob" validate:"gte=0,lte=1"`
	UnderProb     float64  `json:"under_prob" validate:"gte=0,lte=1"`
	HomeCoverProb float64  `json:"home_cover_prob" validate:"gte=0,lte=1"`
	AwayCoverProb float64  `json:"away_cover_prob" validate:"gte=0,lte=1"`
	TotalLine     *float64 `json:"total_line"`
	SpreadLine    *float64 `json:"spread_line"`
	Confidence    float64  `json:"confidence" validate:"gte=0,lte=1"`
	SimilarGames  int      `json:"n_similar"`
	AvgSimilarity float64  `json:"avg_similarity"`
}

// MarketForecast is the de-vigged market consensus for one matchup,
// aggregated across books per market.
type MarketForecast struct {
	HomeWinProb   float64  `json:"home_win_prob" validate:"gte=0,lte=1"`
	AwayWinProb   float64  `json:"away_win_prob" validate:"gte=0,lte=1"`
	OverProb      float64  `json:"over_prob" validate:"gte=0,lte=1"`
	UnderProb     float64  `json:"under_prob" validate:"gte=0,lte=1"`
	HomeCoverProb float64  `json:"home_cover_prob" validate:"gte=0,lte=1"`
	TotalLine     *float64 `json:"total_line"`
	SpreadLine    *float64 `json:"spread_line"`
	BooksML       int      `json:"n_books_ml"`
	BooksTotal    int      `json:"n_books_total"`
	BooksSpread   int      `json:"n_books_spread"`
	// UnblendedMarkets lists markets whose consensus came from one-sided
	// quotes only. Their probabilities still carry vig, so the blender must
	// not treat them as fair prices.
	UnblendedMarkets []MarketType `json:"unblended_markets,omitempty"`
	// Unblended is set when any market's consensus is one-sided.
	Unblended bool `json:"unblended,omitempty"`
}

// MarketUnblended reports whether a market's consensus was built from
// one-sided quotes and never de-vigged.
func (m MarketForecast) MarketUnblended(market MarketType) bool {
	for _, u := range m.UnblendedMarkets {
		if u == market {
			return true
		}
	}
	return false
}

// BlendedForecast is the confidence-weighted combination of model and market
// probabilities for one matchup. One per matchup per run.
type BlendedForecast struct {
	HomeWinProb   float64  `json:"home_win_prob" validate:"gte=0,lte=1"`
	AwayWinProb   float64  `json:"away_win_prob" validate:"gte=0,lte=1"`
	OverProb      float64  `json:"over_prob" validate:"gte=0,lte=1"`
	UnderProb     float64  `json:"under_prob" validate:"gte=0,lte=1"`
	HomeCoverProb float64  `json:"home_cover_prob" validate:"gte=0,lte=1"`
	AwayCoverProb float64  `json:"away_cover_prob" validate:"gte=0,lte=1"`
	ExpectedTotal float64  `json:"expected_total"`
	TotalLine     *float64 `json:"total_line"`
	Confidence    float64  `json:"confidence" validate:"gte=0,lte=1"`
	ModelWeight   float64  `json:"effective_model_weight" validate:"gte=0,lte=1"`
	// SkippedMarkets lists markets whose model/market probability pairs were
	// incompatible and could not be blended. Quotes on them are not scored.
	SkippedMarkets []MarketType `json:"-"`
}

// MarketSkipped reports whether a market was dropped during blending.
func (b BlendedForecast) MarketSkipped(market MarketType) bool {
	for _, m := range b.SkippedMarkets {
		if m == market {
			return true
		}
	}
	return false
}

// ProbForSide returns the blended probability for the outcome a quote prices.
func (b BlendedForecast) ProbForSide(market MarketType, side Side) (float64, bool) {
	if b.MarketSkipped(market) {
		return 0, false
	}
	switch market {
	case MarketMoneyline:
		switch side {
		case SideHome:
			return b.HomeWinProb, true
		case SideAway:
			return b.AwayWinProb, true
		}
	case MarketTotal:
		switch side {
		case SideOver:
			return b.OverProb, true
		case SideUnder:
			return b.UnderProb, true
		}
	case MarketSpread:
		switch side {
		case SideHome:
			return b.HomeCoverProb, true
		case SideAway:
			return b.AwayCoverProb, true
		}
	}
	return 0, false
}
