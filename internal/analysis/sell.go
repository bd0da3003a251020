package analysis

import "acionista/internal/domain"

// sellCriterion is one row of the ordered sell table. Criteria are
// mutually exclusive: the list is ranked by urgency and evaluation stops
// at the first match.
type sellCriterion struct {
	reason     string
	weight     float64
	multiplier float64
	match      func(row domain.AnalysisRow) bool
}

func sellCriteria(params Params) []sellCriterion {
	return []sellCriterion{
		{
			reason:     "bought near the 52-week high",
			weight:     0.10,
			multiplier: 0.98,
			match: func(r domain.AnalysisRow) bool {
				return r.AverageCost >= r.Week52High*params.NearMaxPct
			},
		},
		{
			reason:     "price near the 52-week high",
			weight:     0.20,
			multiplier: 1.05,
			match: func(r domain.AnalysisRow) bool {
				return r.Quote >= r.Week52High*params.NearMaxPct
			},
		},
		{
			reason:     "price below the weighted stop loss",
			weight:     0.30,
			multiplier: 0.97,
			match: func(r domain.AnalysisRow) bool {
				return r.Quote < r.StopLoss
			},
		},
		{
			reason:     "declining net income over the last quarter",
			weight:     0.10,
			multiplier: 0.96,
			match: func(r domain.AnalysisRow) bool {
				return r.NetIncome3M < r.NetIncome12M/4
			},
		},
		{
			reason:     "declining net revenue over the last quarter",
			weight:     0.10,
			multiplier: 0.96,
			match: func(r domain.AnalysisRow) bool {
				return r.NetRevenue3M < r.NetRevenue12M/4
			},
		},
		{
			reason:     "high financial leverage",
			weight:     0.05,
			multiplier: 0.95,
			match: func(r domain.AnalysisRow) bool {
				// zero equity cannot assert leverage
				return r.Equity != 0 && r.NetDebt/r.Equity > 1
			},
		},
		{
			reason:     "current liquidity problem",
			weight:     0.05,
			multiplier: 0.95,
			match: func(r domain.AnalysisRow) bool {
				return r.GrossDebt != 0 && r.CurrentAssets/r.GrossDebt < 1
			},
		},
		{
			reason:     "low profitability (ROE)",
			weight:     0.10,
			multiplier: 0.97,
			match: func(r domain.AnalysisRow) bool {
				return r.ROE < 10
			},
		},
	}
}

// EvaluateSell scores one held row against the ordered sell table.
// Returns (result, false) when no criterion fires or the row is not a
// priced holding.
func EvaluateSell(row domain.AnalysisRow, params Params) (domain.SignalResult, bool) {
	if !row.Held || row.Quote <= 0 {
		return domain.SignalResult{}, false
	}

	for _, c := range sellCriteria(params) {
		if !c.match(row) {
			continue
		}
		return domain.SignalResult{
			Ticker:         row.Ticker,
			Reasons:        []string{c.reason},
			Weight:         c.weight,
			SuggestedPrice: row.Quote * c.multiplier,
		}, true
	}
	return domain.SignalResult{}, false
}
