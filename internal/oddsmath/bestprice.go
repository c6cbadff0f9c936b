package oddsmath

import "github.com/yourusername/puckline/internal/models"

// BestQuotes keeps, for each market and side, the quote with the highest
// American price across books. Higher American odds always pay more per
// unit, so price alone decides. Ties keep the first book seen; relative
// order of the winners follows the input.
func BestQuotes(quotes []models.MarketQuote) []models.MarketQuote {
	type key struct {
		market models.MarketType
		side   models.Side
	}

	bestIdx := make(map[key]int)
	var order []key
	for i, q := range quotes {
		k := key{market: q.Market, side: q.Side}
		current, seen := bestIdx[k]
		if !seen {
			bestIdx[k] = i
			order = append(order, k)
			continue
		}
		if q.Price > quotes[current].Price {
			bestIdx[k] = i
		}
	}

	best := make([]models.MarketQuote, 0, len(order))
	for _, k := range order {
		best = append(best, quotes[bestIdx[k]])
	}
	return best
}
