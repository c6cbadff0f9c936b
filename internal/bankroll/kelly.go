package bankroll

// Quarter Kelly keeps drawdowns survivable when the model's probabilities
// are off.
const DefaultKellyFraction = 0.25

// KellyFraction returns the fraction of bankroll to stake on a bet with the
// given win probability and decimal odds, scaled down by the safety
// fraction. A bet with no positive expectation returns 0.
func KellyFraction(trueProb, decimalOdds, fraction float64) float64 {
	if fraction <= 0 {
		fraction = DefaultKellyFraction
	}
	b := decimalOdds - 1
	if b <= 0 || trueProb <= 0 || trueProb >= 1 {
		return 0
	}

	fullKelly := (b*trueProb - (1 - trueProb)) / b
	if fullKelly <= 0 {
		return 0
	}
	return fullKelly * fraction
}
