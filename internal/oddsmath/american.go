// Package oddsmath implements American-odds conversions and proportional
// de-vigging. The de-vig method is isolated here so an alternative (e.g.
// Shin's method) can replace it without touching callers.
package oddsmath

import (
	"fmt"
	"math"

	"github.com/yourusername/puckline/internal/models"
)

// AmericanToImplied converts an American price to the probability the book
// is charging for. +150 → 0.4, -150 → 0.6. A price of 0 is malformed.
func AmericanToImplied(price int) (float64, error) {
	if price == 0 {
		return 0, fmt.Errorf("%w: price cannot be 0", models.ErrInvalidQuote)
	}
	if price > 0 {
		return 100.0 / (float64(price) + 100.0), nil
	}
	return float64(-price) / (float64(-price) + 100.0), nil
}

// PayoutPerUnit returns the profit on a winning one-unit stake.
// +120 → 1.20, -150 → 0.6667.
func PayoutPerUnit(price int) (float64, error) {
	if price == 0 {
		return 0, fmt.Errorf("%w: price cannot be 0", models.ErrInvalidQuote)
	}
	if price > 0 {
		return float64(price) / 100.0, nil
	}
	return 100.0 / float64(-price), nil
}

// AmericanToDecimal converts an American price to decimal odds.
// +150 → 2.50, -150 → 1.6667.
func AmericanToDecimal(price int) (float64, error) {
	payout, err := PayoutPerUnit(price)
	if err != nil {
		return 0, err
	}
	return payout + 1.0, nil
}

// DecimalToAmerican converts decimal odds back to the nearest American price.
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("%w: decimal odds must exceed 1.0", models.ErrInvalidQuote)
	}
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}
