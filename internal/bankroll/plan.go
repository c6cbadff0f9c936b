package bankroll

import (
	"github.com/shopspring/decimal"
	"github.com/yourusername/puckline/internal/models"
)

// Stakes are money, so the plan carries them as exact decimals rounded to
// cents rather than floats.
const stakePrecision = 2

// Entry is one sized bet in a staking plan.
type Entry struct {
	Pick          string          `json:"pick"`
	Book          string          `json:"book"`
	KellyFraction float64         `json:"kelly_fraction"`
	Stake         decimal.Decimal `json:"stake"`
	ExpectedGain  decimal.Decimal `json:"expected_gain"`
}

// Plan sizes a run's recommendations against a bankroll.
type Plan struct {
	Bankroll    decimal.Decimal `json:"bankroll"`
	Entries     []Entry         `json:"entries"`
	TotalStake  decimal.Decimal `json:"total_stake"`
	TotalEV     decimal.Decimal `json:"total_ev"`
	AvgEdge     float64         `json:"avg_edge"`
	ExpectedROI decimal.Decimal `json:"expected_roi"`
}

// BuildPlan sizes each recommendation with fractional Kelly against the
// bankroll. Recommendations whose Kelly fraction is 0 are left out; ordering
// follows the input.
func BuildPlan(bankroll decimal.Decimal, fraction float64, recs []models.Recommendation) Plan {
	plan := Plan{
		Bankroll:    bankroll,
		TotalStake:  decimal.Zero,
		TotalEV:     decimal.Zero,
		ExpectedROI: decimal.Zero,
	}

	edgeSum := 0.0
	for _, rec := range recs {
		kelly := KellyFraction(rec.TrueProb, rec.DecimalOdds, fraction)
		if kelly <= 0 {
			continue
		}

		stake := bankroll.Mul(decimal.NewFromFloat(kelly)).Round(stakePrecision)
		if stake.IsZero() {
			continue
		}

		// EV per unit restated at the sized stake.
		gain := stake.Mul(decimal.NewFromFloat(rec.ROI)).Round(stakePrecision)

		plan.Entries = append(plan.Entries, Entry{
			Pick:          rec.Pick,
			Book:          rec.Book,
			KellyFraction: kelly,
			Stake:         stake,
			ExpectedGain:  gain,
		})
		plan.TotalStake = plan.TotalStake.Add(stake)
		plan.TotalEV = plan.TotalEV.Add(gain)
		edgeSum += rec.Edge
	}

	if n := len(plan.Entries); n > 0 {
		plan.AvgEdge = edgeSum / float64(n)
	}
	if plan.TotalStake.IsPositive() {
		plan.ExpectedROI = plan.TotalEV.Div(plan.TotalStake).Round(4)
	}

	return plan
}
