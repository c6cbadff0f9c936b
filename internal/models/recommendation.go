package models

// Grade buckets edge magnitude for at-a-glance ranking.
type Grade string

const (
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
)

// GradeForEdge maps a qualifying edge to its grade. Thresholds are fixed and
// ordered; first match from the highest wins.
func GradeForEdge(edge float64) Grade {
	switch {
	case edge >= 0.07:
		return GradeA
	case edge >= 0.04:
		return GradeBPlus
	case edge >= 0.03:
		return GradeB
	default:
		return GradeCPlus
	}
}

// Recommendation is one actionable bet. It exists only when edge strictly
// exceeds the configured minimum, and only in the current run's output.
type Recommendation struct {
	Pick        string     `json:"pick"`
	Game        string     `json:"game"`
	BetType     string     `json:"bet_type"`
	Book        string     `json:"book"`
	Odds        int        `json:"odds"`
	DecimalOdds float64    `json:"decimal_odds"`
	Market      MarketType `json:"-"`
	Side        Side       `json:"-"`
	Edge        float64    `json:"edge"`
	TrueProb    float64    `json:"true_prob"`
	ImpliedProb float64    `json:"implied_prob"`
	EV          float64    `json:"ev"`
	ROI         float64    `json:"roi"`
	Stake       float64    `json:"stake"`
	Confidence  float64    `json:"confidence"`
	Grade       Grade      `json:"grade"`
}
