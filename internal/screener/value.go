// Package screener ranks the fundamentus universe with the screening
// variants that sit next to the portfolio analysis: a value screen, a
// dividend screen and a payout-consistency screen.
package screener

import (
	"math"
	"sort"

	"acionista/internal/domain"
)

// ValueParams bound the value screen. Yields, ROE and growth are percent
// numbers (6 means 6%).
type ValueParams struct {
	MinPL        float64
	MaxPL        float64
	MinPVP       float64
	MaxPVP       float64
	MinYieldPct  float64
	MaxYieldPct  float64
	MinROEPct    float64
	MaxROEPct    float64
	MinLiquidity float64
	MinGrowthPct float64
}

func DefaultValueParams() ValueParams {
	return ValueParams{
		MinPL:        3,
		MaxPL:        10,
		MinPVP:       0.5,
		MaxPVP:       2,
		MinYieldPct:  6,
		MaxYieldPct:  14,
		MinROEPct:    15,
		MaxROEPct:    30,
		MinLiquidity: 1_000_000,
		MinGrowthPct: 10,
	}
}

// ValueScreen filters the universe to profitable, liquid, reasonably
// priced payers and scores each survivor one point per quintile edge it
// sits on: cheapest fifth by P/L, P/VP and debt-to-equity, richest fifth
// by yield and ROE.
func ValueScreen(snapshots []domain.MarketSnapshot, p ValueParams) []domain.ScreenRow {
	var kept []domain.MarketSnapshot
	for _, s := range snapshots {
		if s.PL <= p.MinPL || s.PL >= p.MaxPL {
			continue
		}
		if s.PVP <= p.MinPVP || s.PVP >= p.MaxPVP {
			continue
		}
		if s.DividendYield <= p.MinYieldPct || s.DividendYield >= p.MaxYieldPct {
			continue
		}
		if s.ROE <= p.MinROEPct || s.ROE >= p.MaxROEPct {
			continue
		}
		if s.AvgVolume2M <= p.MinLiquidity {
			continue
		}
		if s.RevenueGrowth5Y <= p.MinGrowthPct {
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		return nil
	}

	pls := make([]float64, len(kept))
	pvps := make([]float64, len(kept))
	yields := make([]float64, len(kept))
	roes := make([]float64, len(kept))
	debts := make([]float64, len(kept))
	for i, s := range kept {
		pls[i] = s.PL
		pvps[i] = s.PVP
		yields[i] = s.DividendYield
		roes[i] = s.ROE
		debts[i] = debtToEquity(s)
	}

	plCut := quantile(pls, 0.2)
	pvpCut := quantile(pvps, 0.2)
	yieldCut := quantile(yields, 0.8)
	roeCut := quantile(roes, 0.8)
	debtCut := quantile(debts, 0.2)

	rows := make([]domain.ScreenRow, len(kept))
	for i, s := range kept {
		score := 0
		if s.PL <= plCut {
			score++
		}
		if s.PVP <= pvpCut {
			score++
		}
		if s.DividendYield >= yieldCut {
			score++
		}
		if s.ROE >= roeCut {
			score++
		}
		if debts[i] <= debtCut {
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

// debtToEquity ranks leverage. Non-positive equity goes to the bottom of
// the cheap-debt quintile rather than dividing by zero.
func debtToEquity(s domain.MarketSnapshot) float64 {
	if s.Equity <= 0 {
		return math.Inf(1)
	}
	return s.GrossDebt / s.Equity
}

// quantile interpolates linearly between order statistics, matching the
// convention spreadsheet tooling uses.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
