package analysis

import "acionista/internal/domain"

// buyCriterion is one row of the additive buy table: every matching row
// contributes its weight and its price multiplier compounds.
type buyCriterion struct {
	reason     string
	weight     float64
	multiplier float64
	match      func(row domain.AnalysisRow) bool
}

func buyCriteria(params Params) []buyCriterion {
	return []buyCriterion{
		{
			reason:     "price near the 52-week low",
			weight:     0.40,
			multiplier: 0.98,
			match: func(r domain.AnalysisRow) bool {
				return r.Quote <= r.MaxBuyPrice
			},
		},
		{
			reason:     "good current liquidity",
			weight:     0.10,
			multiplier: 1.02,
			match: func(r domain.AnalysisRow) bool {
				return r.GrossDebt == 0 || r.CurrentAssets/r.GrossDebt > 1.5
			},
		},
		{
			reason:     "high profitability (ROIC and ROE)",
			weight:     0.10,
			multiplier: 1.03,
			match: func(r domain.AnalysisRow) bool {
				return r.ROIC > 10 && r.ROE > 10
			},
		},
		{
			reason:     "low financial leverage",
			weight:     0.10,
			multiplier: 1.01,
			match: func(r domain.AnalysisRow) bool {
				return r.Equity != 0 && r.NetDebt/r.Equity < 0.5
			},
		},
	}
}

// EvaluateBuy scores one candidate row against the additive buy table.
// Candidates must clear the liquidity floor and sit at or under the max
// buy price; a candidate matching nothing is excluded, not scored zero.
func EvaluateBuy(row domain.AnalysisRow, params Params) (domain.SignalResult, bool) {
	if row.Quote <= 0 {
		return domain.SignalResult{}, false
	}
	if row.AvgVolume2M <= params.MinAvgVolume2M {
		return domain.SignalResult{}, false
	}
	if row.Quote > row.MaxBuyPrice {
		return domain.SignalResult{}, false
	}

	result := domain.SignalResult{
		Ticker:         row.Ticker,
		SuggestedPrice: row.Quote,
	}
	for _, c := range buyCriteria(params) {
		if !c.match(row) {
			continue
		}
		result.Reasons = append(result.Reasons, c.reason)
		result.Weight += c.weight
		result.SuggestedPrice *= c.multiplier
	}

	if len(result.Reasons) == 0 {
		return domain.SignalResult{}, false
	}
	return result, true
}
