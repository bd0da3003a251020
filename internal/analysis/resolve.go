package analysis

import (
	"sort"

	"acionista/internal/domain"
)

// Resolve classifies every signaled ticker exclusively as a buy or a
// sell. When both sides fired, the larger weight wins; exact ties go to
// the sell side, the conservative default. Sell output keeps the
// evaluators' ticker order so the throttle sees a deterministic queue.
func Resolve(buys, sells []domain.SignalResult, rows []domain.AnalysisRow) ([]domain.Recommendation, []domain.Recommendation) {
	rowByTicker := make(map[string]domain.AnalysisRow, len(rows))
	for _, r := range rows {
		rowByTicker[r.Ticker] = r
	}
	buyByTicker := make(map[string]domain.SignalResult, len(buys))
	for _, b := range buys {
		buyByTicker[b.Ticker] = b
	}
	sellByTicker := make(map[string]domain.SignalResult, len(sells))
	for _, s := range sells {
		sellByTicker[s.Ticker] = s
	}

	var buyRecs, sellRecs []domain.Recommendation

	for _, s := range sells {
		if b, both := buyByTicker[s.Ticker]; both && b.Weight > s.Weight {
			continue // buy side dominates
		}
		row := rowByTicker[s.Ticker]
		sellRecs = append(sellRecs, domain.Recommendation{
			Ticker:         s.Ticker,
			Action:         domain.ActionSell,
			Reasons:        s.Reasons,
			Weight:         s.Weight,
			SuggestedPrice: s.SuggestedPrice,
			ExpectedResult: (row.Quote - row.AverageCost) * float64(row.Quantity),
			Row:            row,
		})
	}

	for _, b := range buys {
		if s, both := sellByTicker[b.Ticker]; both && s.Weight >= b.Weight {
			continue // sell side dominates, ties included
		}
		buyRecs = append(buyRecs, domain.Recommendation{
			Ticker:         b.Ticker,
			Action:         domain.ActionBuy,
			Reasons:        b.Reasons,
			Weight:         b.Weight,
			SuggestedPrice: b.SuggestedPrice,
			Row:            rowByTicker[b.Ticker],
		})
	}

	sort.SliceStable(sellRecs, func(i, j int) bool { return sellRecs[i].Ticker < sellRecs[j].Ticker })
	sort.SliceStable(buyRecs, func(i, j int) bool { return buyRecs[i].Ticker < buyRecs[j].Ticker })
	return buyRecs, sellRecs
}
