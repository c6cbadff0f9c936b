package oddsmath

import (
	"fmt"

	"github.com/yourusername/puckline/internal/models"
)

// DeVigPair strips the bookmaker margin from a two-way market by
// proportional normalization: each raw implied probability is divided by the
// pair's sum, so the fair pair sums to exactly 1.
func DeVigPair(rawA, rawB float64) (fairA, fairB float64, err error) {
	if rawA <= 0 || rawA >= 1 || rawB <= 0 || rawB >= 1 {
		return 0, 0, fmt.Errorf("%w: implied probabilities must be in (0,1)", models.ErrInvalidQuote)
	}
	total := rawA + rawB
	return rawA / total, rawB / total, nil
}

// DeVigQuotes de-vigs a two-sided market straight from its American prices.
func DeVigQuotes(priceA, priceB int) (fairA, fairB float64, err error) {
	rawA, err := AmericanToImplied(priceA)
	if err != nil {
		return 0, 0, err
	}
	rawB, err := AmericanToImplied(priceB)
	if err != nil {
		return 0, 0, err
	}
	return DeVigPair(rawA, rawB)
}

// Overround returns the bookmaker margin baked into a set of implied
// probabilities: the amount by which they sum past 1.
func Overround(probs ...float64) float64 {
	total := 0.0
	for _, p := range probs {
		total += p
	}
	if total <= 1.0 {
		return 0
	}
	return total - 1.0
}

// Consensus averages fair probabilities contributed by multiple books for
// the same two-way market. An averaged pair of normalized pairs still sums
// to 1.
func Consensus(fairA, fairB []float64) (float64, float64, error) {
	if len(fairA) == 0 || len(fairA) != len(fairB) {
		return 0, 0, fmt.Errorf("%w: no books to average", models.ErrInvalidQuote)
	}
	var sumA, sumB float64
	for i := range fairA {
		sumA += fairA[i]
		sumB += fairB[i]
	}
	n := float64(len(fairA))
	return sumA / n, sumB / n, nil
}
