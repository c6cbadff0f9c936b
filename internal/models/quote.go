package models

// MarketType is the closed set of bet markets the engine understands.
// Every type has a defined payout and implied-probability rule; the edge
// engine switches exhaustively over these values.
type MarketType string

const (
	MarketMoneyline MarketType = "moneyline"
	MarketTotal     MarketType = "total"
	MarketSpread    MarketType = "spread" // puck line
)

// DisplayName returns the label used in published recommendations.
func (m MarketType) DisplayName() string {
	switch m {
	case MarketMoneyline:
		return "Moneyline"
	case MarketTotal:
		return "Total"
	case MarketSpread:
		return "Spread"
	}
	return string(m)
}

// Side identifies which outcome of a market a quote prices.
type Side string

const (
	SideHome  Side = "home"
	SideAway  Side = "away"
	SideOver  Side = "over"
	SideUnder Side = "under"
)

// Opposite returns the other side of a two-way market.
func (s Side) Opposite() Side {
	switch s {
	case SideHome:
		return SideAway
	case SideAway:
		return SideHome
	case SideOver:
		return SideUnder
	case SideUnder:
		return SideOver
	}
	return s
}

// MarketQuote is one bookmaker's price for one side of one market.
// Quotes across books are independent; no two are assumed consistent.
type MarketQuote struct {
	Book   string     `json:"book" validate:"required"`
	Market MarketType `json:"market" validate:"required,oneof=moneyline total spread"`
	Side   Side       `json:"side" validate:"required"`
	Price  int        `json:"price"` // American odds; 0 is invalid
	Point  *float64   `json:"point,omitempty"`
}

// HasPoint reports whether the quote carries a line (totals and spreads do).
func (q MarketQuote) HasPoint() bool {
	return q.Point != nil
}
