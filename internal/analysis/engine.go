package analysis

import (
	"sort"
	"sync"
	"time"

	"acionista/internal/domain"
)

// Input is one complete, stable universe for a single engine pass.
// Partial snapshots must be rejected by the caller before this point.
type Input struct {
	Positions     []domain.Position
	Snapshots     []domain.MarketSnapshot
	AvailableCash float64
	SoldThisMonth float64
	Now           time.Time
}

// Engine runs the joined rows through the evaluators, resolves buy/sell
// conflicts, allocates cash and throttles sells. One batch pass per
// call; inputs are never mutated.
type Engine struct {
	params Params
}

func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

func (e *Engine) Params() Params { return e.params }

// Run produces the full report for one universe.
func (e *Engine) Run(in Input) domain.Report {
	rows := Join(in.Positions, in.Snapshots, e.params)

	buys, sells := e.evaluate(rows)
	buyRecs, sellRecs := Resolve(buys, sells, rows)

	buyRecs = Allocate(buyRecs, in.AvailableCash)
	sellRecs, remaining := ThrottleSells(sellRecs, e.params.MonthlySellCap, in.SoldThisMonth)

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	report := domain.Report{
		GeneratedAt:     now,
		AvailableCash:   in.AvailableCash,
		MonthlySellCap:  e.params.MonthlySellCap,
		SoldThisMonth:   in.SoldThisMonth,
		RemainingToSell: remaining,
		Sells:           sellRecs,
		Buys:            buyRecs,
		Summary:         Summarize(rows),
		Dividends:       SummarizeDividends(rows),
	}
	report.AvgDividendYield, report.TotalAnnualIncome, report.MonthlyAvgIncome = dividendTotals(report.Dividends)
	return report
}

// evaluate scores every row on both sides. Rows are independent, so the
// work fans out over a bounded pool and is re-sorted by ticker before
// the resolver needs its stable global view.
func (e *Engine) evaluate(rows []domain.AnalysisRow) ([]domain.SignalResult, []domain.SignalResult) {
	type verdict struct {
		buy     domain.SignalResult
		sell    domain.SignalResult
		hasBuy  bool
		hasSell bool
	}

	verdicts := make([]verdict, len(rows))

	workers := e.params.Workers
	if workers <= 1 {
		for i, row := range rows {
			verdicts[i].buy, verdicts[i].hasBuy = EvaluateBuy(row, e.params)
			verdicts[i].sell, verdicts[i].hasSell = EvaluateSell(row, e.params)
		}
	} else {
		var wg sync.WaitGroup
		indexes := make(chan int)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range indexes {
					verdicts[i].buy, verdicts[i].hasBuy = EvaluateBuy(rows[i], e.params)
					verdicts[i].sell, verdicts[i].hasSell = EvaluateSell(rows[i], e.params)
				}
			}()
		}
		for i := range rows {
			indexes <- i
		}
		close(indexes)
		wg.Wait()
	}

	var buys, sells []domain.SignalResult
	for _, v := range verdicts {
		if v.hasBuy {
			buys = append(buys, v.buy)
		}
		if v.hasSell {
			sells = append(sells, v.sell)
		}
	}
	sort.Slice(buys, func(i, j int) bool { return buys[i].Ticker < buys[j].Ticker })
	sort.Slice(sells, func(i, j int) bool { return sells[i].Ticker < sells[j].Ticker })
	return buys, sells
}

// Summarize builds the held-position listing, including held tickers
// that never entered scoring for lack of a snapshot.
func Summarize(rows []domain.AnalysisRow) []domain.SummaryRow {
	var summary []domain.SummaryRow
	for _, row := range rows {
		if !row.Held {
			continue
		}
		s := domain.SummaryRow{
			Ticker:        row.Ticker,
			Sector:        row.Sector,
			Quantity:      row.Quantity,
			AverageCost:   row.AverageCost,
			Quote:         row.Quote,
			Week52Low:     row.Week52Low,
			Week52High:    row.Week52High,
			PositionValue: row.PositionValue,
			StopLoss:      row.StopLoss,
			TakeProfit:    row.TakeProfit,
			AnnualYield:   row.DividendPerShare * float64(row.Quantity),
		}
		if row.AverageCost > 0 {
			s.CostDiffPct = (row.Quote - row.AverageCost) / row.AverageCost * 100
		}
		summary = append(summary, s)
	}
	return summary
}

// SummarizeDividends builds the portfolio dividend listing: what each
// held ticker pays per share and per position at the current yield.
// Held tickers without a quote never received a snapshot and carry no
// yield data, so they are left out.
func SummarizeDividends(rows []domain.AnalysisRow) []domain.DividendRow {
	var dividends []domain.DividendRow
	for _, row := range rows {
		if !row.Held || row.Quote <= 0 {
			continue
		}
		dividends = append(dividends, domain.DividendRow{
			Ticker:           row.Ticker,
			Sector:           row.Sector,
			DividendYield:    row.DividendYield,
			DividendPerShare: row.DividendPerShare,
			YieldPer1000:     row.YieldPer1000,
			Quantity:         row.Quantity,
			AnnualIncome:     row.DividendPerShare * float64(row.Quantity),
		})
	}
	return dividends
}

// dividendTotals aggregates the listing: mean yield per held ticker,
// total annual income and its monthly average.
func dividendTotals(rows []domain.DividendRow) (avgYield, total, monthly float64) {
	if len(rows) == 0 {
		return 0, 0, 0
	}
	for _, row := range rows {
		avgYield += row.DividendYield
		total += row.AnnualIncome
	}
	avgYield /= float64(len(rows))
	return avgYield, total, total / 12
}
