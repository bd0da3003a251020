package analysis

import (
	"log"
	"sort"

	"acionista/internal/domain"
)

// Join left-outer-joins positions onto market snapshots and computes the
// derived thresholds. Every snapshot becomes a row (buy candidates); a
// held ticker missing from the snapshot set still yields a bare row so
// the portfolio listing keeps it, but it is marked unpriced and skipped
// by both evaluators.
//
// Held rows with a non-positive quote or an undefined average cost are
// dropped from scoring as well: they would divide by zero downstream.
func Join(positions []domain.Position, snapshots []domain.MarketSnapshot, params Params) []domain.AnalysisRow {
	posByTicker := make(map[string]domain.Position, len(positions))
	for _, p := range positions {
		posByTicker[p.Ticker] = p
	}

	rows := make([]domain.AnalysisRow, 0, len(snapshots)+len(positions))
	seen := make(map[string]bool, len(snapshots))

	for _, snap := range snapshots {
		if snap.Ticker == "" {
			continue
		}
		if snap.Quote <= 0 {
			log.Printf("join: skipping %s: non-positive quote %.2f", snap.Ticker, snap.Quote)
			continue
		}
		seen[snap.Ticker] = true

		row := domain.AnalysisRow{MarketSnapshot: snap}
		row.MaxBuyPrice = snap.Week52Low * params.AboveMinPct
		row.DividendPerShare = snap.Quote * snap.DividendYield / 100
		if simulated := int(1000 / snap.Quote); simulated > 0 {
			row.YieldPer1000 = row.DividendPerShare * float64(simulated)
		}

		if pos, held := posByTicker[snap.Ticker]; held {
			if pos.AverageCost <= 0 {
				log.Printf("join: skipping held %s: undefined average cost", snap.Ticker)
				continue
			}
			row.Held = true
			row.Quantity = pos.Quantity
			row.AverageCost = pos.AverageCost
			row.PositionValue = snap.Quote * float64(pos.Quantity)
			row.StopLoss = params.StopLossAlpha*pos.AverageCost + (1-params.StopLossAlpha)*snap.Week52Low
			row.TakeProfit = pos.AverageCost * (1 + params.TakeProfitPct)
		}

		rows = append(rows, row)
	}

	// Held tickers without a snapshot stay visible in the listing but
	// never enter scoring.
	for _, pos := range positions {
		if seen[pos.Ticker] {
			continue
		}
		log.Printf("join: held %s has no market snapshot", pos.Ticker)
		rows = append(rows, domain.AnalysisRow{
			MarketSnapshot: domain.MarketSnapshot{Ticker: pos.Ticker},
			Held:           true,
			Quantity:       pos.Quantity,
			AverageCost:    pos.AverageCost,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Ticker < rows[j].Ticker })
	return rows
}
