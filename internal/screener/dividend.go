package screener

import (
	"sort"

	"acionista/internal/domain"
)

// DividendParams bound the dividend screen. The yield ceiling guards
// against dividend traps: a double-digit trailing yield is usually a
// crashed price, not a generous payer.
type DividendParams struct {
	MinLiquidity float64
	MinYieldPct  float64
	MaxYieldPct  float64
	TopN         int
}

func DefaultDividendParams() DividendParams {
	return DividendParams{
		MinLiquidity: 3_000_000,
		MinYieldPct:  6,
		MaxYieldPct:  20,
		TopN:         5,
	}
}

// DividendScreen keeps liquid payers inside the yield band, collapses
// multiple share classes of one company to its most liquid listing, and
// scores two points for a top-five yield plus one for top-five liquidity.
func DividendScreen(snapshots []domain.MarketSnapshot, p DividendParams) []domain.ScreenRow {
	var kept []domain.MarketSnapshot
	for _, s := range snapshots {
		if s.AvgVolume2M <= p.MinLiquidity {
			continue
		}
		if s.DividendYield <= p.MinYieldPct || s.DividendYield >= p.MaxYieldPct {
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		return nil
	}

	// Most liquid listing wins per company root (PETR3/PETR4 -> PETR).
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].AvgVolume2M != kept[j].AvgVolume2M {
			return kept[i].AvgVolume2M > kept[j].AvgVolume2M
		}
		return kept[i].Ticker < kept[j].Ticker
	})
	seen := make(map[string]bool)
	deduped := kept[:0]
	for _, s := range kept {
		root := tickerRoot(s.Ticker)
		if seen[root] {
			continue
		}
		seen[root] = true
		deduped = append(deduped, s)
	}

	topYield := topTickersBy(deduped, p.TopN, func(s domain.MarketSnapshot) float64 { return s.DividendYield })
	topLiquidity := topTickersBy(deduped, p.TopN, func(s domain.MarketSnapshot) float64 { return s.AvgVolume2M })

	rows := make([]domain.ScreenRow, len(deduped))
	for i, s := range deduped {
		score := 0
		if topYield[s.Ticker] {
			score += 2
		}
		if topLiquidity[s.Ticker] {
			score++
		}
		rows[i] = domain.ScreenRow{
			Ticker:    s.Ticker,
			Sector:    s.Sector,
			Quote:     s.Quote,
			PL:        s.PL,
			PVP:       s.PVP,
			Yield:     s.DividendYield,
			ROE:       s.ROE,
			Liquidity: s.AvgVolume2M,
			Score:     score,
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if rows[i].Yield != rows[j].Yield {
			return rows[i].Yield > rows[j].Yield
		}
		return rows[i].Ticker < rows[j].Ticker
	})
	return rows
}

// tickerRoot strips the share-class suffix: the leading letters of a B3
// ticker name the company, the digits name the listing.
func tickerRoot(ticker string) string {
	for i, r := range ticker {
		if r >= '0' && r <= '9' {
			return ticker[:i]
		}
	}
	return ticker
}

func topTickersBy(snapshots []domain.MarketSnapshot, n int, key func(domain.MarketSnapshot) float64) map[string]bool {
	sorted := append([]domain.MarketSnapshot(nil), snapshots...)
	sort.Slice(sorted, func(i, j int) bool {
		if key(sorted[i]) != key(sorted[j]) {
			return key(sorted[i]) > key(sorted[j])
		}
		return sorted[i].Ticker < sorted[j].Ticker
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	top := make(map[string]bool, n)
	for _, s := range sorted[:n] {
		top[s.Ticker] = true
	}
	return top
}
