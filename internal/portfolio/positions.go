package portfolio

import (
	"sort"
	"time"

	"acionista/internal/domain"
)

// BuildPositions reconstructs current holdings from the trade ledger.
// Pure function: buy quantity/gross and sell quantity accumulate per
// ticker, tickers fully exited (quantity ≤ 0) are dropped, and average
// cost is total buy gross over total buy quantity.
func BuildPositions(trades []domain.Trade) []domain.Position {
	type totals struct {
		buyQty    int
		buyGross  float64
		sellQty   int
	}

	byTicker := make(map[string]*totals)
	for _, t := range trades {
		if t.Ticker == "" || t.Quantity <= 0 {
			continue
		}
		acc, ok := byTicker[t.Ticker]
		if !ok {
			acc = &totals{}
			byTicker[t.Ticker] = acc
		}
		switch t.Side {
		case domain.SideBuy:
			acc.buyQty += t.Quantity
			acc.buyGross += t.Gross
		case domain.SideSell:
			acc.sellQty += t.Quantity
		}
	}

	positions := make([]domain.Position, 0, len(byTicker))
	for ticker, acc := range byTicker {
		held := acc.buyQty - acc.sellQty
		if held <= 0 || acc.buyQty == 0 {
			continue
		}
		positions = append(positions, domain.Position{
			Ticker:      ticker,
			Quantity:    held,
			AverageCost: acc.buyGross / float64(acc.buyQty),
		})
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].Ticker < positions[j].Ticker })
	return positions
}

// SoldThisMonth sums the sell gross of every ledger row dated in the
// calendar month of now. Feeds the monthly sell throttle.
func SoldThisMonth(trades []domain.Trade, now time.Time) float64 {
	year, month := now.Year(), now.Month()
	total := 0.0
	for _, t := range trades {
		if t.Side != domain.SideSell {
			continue
		}
		if t.Date.Year() == year && t.Date.Month() == month {
			total += t.Gross
		}
	}
	return total
}
