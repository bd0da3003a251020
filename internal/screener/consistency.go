package screener

import (
	"sort"

	"acionista/internal/domain"
)

// ConsistencyRow is one line of the payout-consistency ranking.
type ConsistencyRow struct {
	Rank          int     `json:"rank"`
	Ticker        string  `json:"ticker"`
	Sector        string  `json:"sector,omitempty"`
	Quote         float64 `json:"quote"`
	PVP           float64 `json:"pvp"`
	CurrentDYPct  float64 `json:"current_dy_pct"`
	AvgYield3YPct float64 `json:"avg_yield_3y_pct"`
	YearsPaying   int     `json:"years_paying"`
}

// ConsistencyScreen keeps tickers with at least five distinct paying
// years and a positive three-year average yield, ranked by that average,
// capped at ten rows. Snapshots fill in quote, sector and P/VP where
// available.
func ConsistencyScreen(histories []domain.DividendHistory, snapshots []domain.MarketSnapshot) []ConsistencyRow {
	byTicker := make(map[string]domain.MarketSnapshot, len(snapshots))
	for _, s := range snapshots {
		byTicker[s.Ticker] = s
	}

	var rows []ConsistencyRow
	for _, h := range histories {
		if !h.Consistent5Y || h.AvgYield3YPct <= 0 {
			continue
		}
		row := ConsistencyRow{
			Ticker:        h.Ticker,
			AvgYield3YPct: h.AvgYield3YPct,
			YearsPaying:   h.YearsPaying,
		}
		if snap, ok := byTicker[h.Ticker]; ok {
			row.Sector = snap.Sector
			row.Quote = snap.Quote
			row.PVP = snap.PVP
			if snap.Quote > 0 {
				row.CurrentDYPct = h.TrailingPerShare / snap.Quote * 100
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AvgYield3YPct != rows[j].AvgYield3YPct {
			return rows[i].AvgYield3YPct > rows[j].AvgYield3YPct
		}
		return rows[i].Ticker < rows[j].Ticker
	})
	if len(rows) > 10 {
		rows = rows[:10]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
