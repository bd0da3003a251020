package analysis

// Params are the tunable thresholds of the engine. Zero value is not
// useful; start from DefaultParams and override from config.
type Params struct {
	// StopLossAlpha blends average cost and the 52-week low:
	// stop = α·avg + (1−α)·low.
	StopLossAlpha float64
	// TakeProfitPct is the gain over average cost that marks the
	// profit-taking threshold (reporting only).
	TakeProfitPct float64
	// AboveMinPct caps the buy price at 52-week-low × AboveMinPct.
	AboveMinPct float64
	// NearMaxPct marks a quote (or an entry price) as "near" the
	// 52-week high at high × NearMaxPct.
	NearMaxPct float64
	// MinAvgVolume2M is the illiquidity floor for buy candidates.
	MinAvgVolume2M float64
	// MonthlySellCap bounds aggregate recommended sell proceeds per
	// calendar month.
	MonthlySellCap float64
	// Workers bounds the evaluator worker pool. ≤ 0 means serial.
	Workers int
}

func DefaultParams() Params {
	return Params{
		StopLossAlpha:  0.5,
		TakeProfitPct:  0.10,
		AboveMinPct:    1.10,
		NearMaxPct:     0.90,
		MinAvgVolume2M: 100_000,
		MonthlySellCap: 20_000,
		Workers:        4,
	}
}
