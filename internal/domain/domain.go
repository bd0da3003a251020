package domain

import (
	"fmt"
	"time"
)

type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// Trade is one settled ledger row from the broker statement.
// Rows are immutable once loaded; the ledger itself is externally owned.
type Trade struct {
	Ticker   string    `json:"ticker"`
	Side     TradeSide `json:"side"`
	Quantity int       `json:"quantity"`
	Gross    float64   `json:"gross"`
	Date     time.Time `json:"date"`
}

// Position is the reconstructed holding for one ticker.
type Position struct {
	Ticker      string  `json:"ticker"`
	Quantity    int     `json:"quantity"`
	AverageCost float64 `json:"average_cost"`
}

// MarketSnapshot carries the current quote plus the fundamentus
// fundamentals for one ticker. Read-only to the engine.
type MarketSnapshot struct {
	Ticker          string  `json:"ticker"`
	Sector          string  `json:"sector,omitempty"`
	Quote           float64 `json:"quote"`
	Week52Low       float64 `json:"week52_low"`
	Week52High      float64 `json:"week52_high"`
	DividendYield   float64 `json:"dividend_yield"` // percent
	PL              float64 `json:"pl"`
	PVP             float64 `json:"pvp"`
	ROE             float64 `json:"roe"`  // percent
	ROIC            float64 `json:"roic"` // percent
	NetDebt         float64 `json:"net_debt"`
	Equity          float64 `json:"equity"`
	CurrentAssets   float64 `json:"current_assets"`
	GrossDebt       float64 `json:"gross_debt"`
	NetIncome3M     float64 `json:"net_income_3m"`
	NetIncome12M    float64 `json:"net_income_12m"`
	NetRevenue3M    float64 `json:"net_revenue_3m"`
	NetRevenue12M   float64 `json:"net_revenue_12m"`
	AvgVolume2M     float64 `json:"avg_volume_2m"`
	RevenueGrowth5Y float64 `json:"revenue_growth_5y"` // percent
}

// AnalysisRow joins an optional Position onto a MarketSnapshot with the
// derived thresholds the evaluators work from. Built fresh each run,
// never mutated by later stages.
type AnalysisRow struct {
	MarketSnapshot

	Held        bool    `json:"held"`
	Quantity    int     `json:"quantity,omitempty"`
	AverageCost float64 `json:"average_cost,omitempty"`

	PositionValue    float64 `json:"position_value,omitempty"`
	StopLoss         float64 `json:"stop_loss,omitempty"`
	TakeProfit       float64 `json:"take_profit,omitempty"`
	MaxBuyPrice      float64 `json:"max_buy_price"`
	DividendPerShare float64 `json:"dividend_per_share"`
	// YieldPer1000 simulates the annual payout of R$1000 parked in
	// whole shares at the current quote.
	YieldPer1000 float64 `json:"yield_per_1000"`
}

// SignalResult is one side's verdict for one ticker. A ticker may carry
// both a buy and a sell result until the resolver picks a side.
type SignalResult struct {
	Ticker         string   `json:"ticker"`
	Reasons        []string `json:"reasons"`
	Weight         float64  `json:"weight"`
	SuggestedPrice float64  `json:"suggested_price"`
}

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Recommendation is the final per-ticker decision. Quantity is filled in
// by the allocator (buys) or the sell throttle (sells), then frozen.
type Recommendation struct {
	Ticker         string      `json:"ticker"`
	Action         Action      `json:"action"`
	Reasons        []string    `json:"reasons"`
	Weight         float64     `json:"weight"`
	SuggestedPrice float64     `json:"suggested_price"`
	Quantity       int         `json:"quantity"`
	Allocated      float64     `json:"allocated,omitempty"`       // buys: quantity × quote
	ExpectedResult float64     `json:"expected_result,omitempty"` // sells: (quote − avg cost) × held qty
	Row            AnalysisRow `json:"row"`
}

// SummaryRow is one line of the portfolio listing.
type SummaryRow struct {
	Ticker        string  `json:"ticker"`
	Sector        string  `json:"sector,omitempty"`
	Quantity      int     `json:"quantity"`
	AverageCost   float64 `json:"average_cost"`
	Quote         float64 `json:"quote"`
	CostDiffPct   float64 `json:"cost_diff_pct"`
	Week52Low     float64 `json:"week52_low"`
	Week52High    float64 `json:"week52_high"`
	PositionValue float64 `json:"position_value"`
	StopLoss      float64 `json:"stop_loss"`
	TakeProfit    float64 `json:"take_profit"`
	AnnualYield   float64 `json:"annual_yield"` // R$ expected from held shares
}

// DividendRow is one line of the portfolio dividend summary: what the
// held shares of one ticker pay out in a year at the current yield.
type DividendRow struct {
	Ticker           string  `json:"ticker"`
	Sector           string  `json:"sector,omitempty"`
	DividendYield    float64 `json:"dividend_yield"` // percent
	DividendPerShare float64 `json:"dividend_per_share"`
	YieldPer1000     float64 `json:"yield_per_1000"`
	Quantity         int     `json:"quantity"`
	AnnualIncome     float64 `json:"annual_income"` // dividend/share × held qty
}

// Report is the full output of one engine run.
type Report struct {
	GeneratedAt     time.Time        `json:"generated_at"`
	AvailableCash   float64          `json:"available_cash"`
	MonthlySellCap  float64          `json:"monthly_sell_cap"`
	SoldThisMonth   float64          `json:"sold_this_month"`
	RemainingToSell float64          `json:"remaining_to_sell"`
	Sells           []Recommendation `json:"sells"`
	Buys            []Recommendation `json:"buys"`
	Summary         []SummaryRow     `json:"summary"`
	Dividends       []DividendRow    `json:"dividends"`

	// Portfolio-wide dividend aggregates over the rows above.
	AvgDividendYield  float64 `json:"avg_dividend_yield"` // percent, mean per held ticker
	TotalAnnualIncome float64 `json:"total_annual_income"`
	MonthlyAvgIncome  float64 `json:"monthly_avg_income"` // TotalAnnualIncome / 12
}

type DividendKind string

const (
	KindDividend DividendKind = "dividend"
	KindJCP      DividendKind = "jcp" // juros sobre capital próprio
)

// DividendEvent is one historical distribution scraped from fundamentus.
type DividendEvent struct {
	Ticker  string       `json:"ticker"`
	Kind    DividendKind `json:"kind"`
	Date    time.Time    `json:"date"`
	Payment *time.Time   `json:"payment,omitempty"`
	Amount  float64      `json:"amount"`
}

// DividendHistory aggregates a ticker's distribution record for the
// consistency screen.
type DividendHistory struct {
	Ticker           string          `json:"ticker"`
	Events           []DividendEvent `json:"events"`
	YearsPaying      int             `json:"years_paying"`
	Consistent5Y     bool            `json:"consistent_5y"`
	AvgYield3YPct    float64         `json:"avg_yield_3y_pct"`
	TrailingPerShare float64         `json:"trailing_per_share"`
}

// ScreenRow is one ranked line from the screening variants.
type ScreenRow struct {
	Ticker    string  `json:"ticker"`
	Sector    string  `json:"sector,omitempty"`
	Quote     float64 `json:"quote"`
	PL        float64 `json:"pl"`
	PVP       float64 `json:"pvp"`
	Yield     float64 `json:"yield"`
	ROE       float64 `json:"roe"`
	Liquidity float64 `json:"liquidity"`
	Score     int     `json:"score"`
	Outlier   bool    `json:"outlier,omitempty"`
}

// FetchError marks a systemic upstream failure. A run that hits one is
// aborted: a report built from a partial universe is worse than none.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func NewFetchError(source string, err error) *FetchError {
	return &FetchError{Source: source, Err: err}
}

// ConversationMessage is one turn of an advisor chat, persisted so the
// model can see prior context.
type ConversationMessage struct {
	Role      string
	Content   string
	CreatedAt time.Time
}
