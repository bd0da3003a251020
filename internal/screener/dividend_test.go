package screener

import (
	"fmt"
	"testing"

	"acionista/internal/domain"
)

func payer(ticker string, yield, liquidity float64) domain.MarketSnapshot {
	return domain.MarketSnapshot{
		Ticker:        ticker,
		Quote:         30,
		DividendYield: yield,
		AvgVolume2M:   liquidity,
	}
}

func TestDividendScreenFilters(t *testing.T) {
	snaps := []domain.MarketSnapshot{
		payer("GOOD3", 8, 5_000_000),
		payer("THIN3", 9, 1_000_000),  // below liquidity floor
		payer("TRAP3", 25, 5_000_000), // yield too high to trust
		payer("LEAN3", 3, 5_000_000),  // yield too low
	}

	rows := DividendScreen(snaps, DefaultDividendParams())
	if len(rows) != 1 || rows[0].Ticker != "GOOD3" {
		t.Fatalf("expected only GOOD3 to survive, got %+v", rows)
	}
}

func TestDividendScreenDeduplicatesShareClasses(t *testing.T) {
	snaps := []domain.MarketSnapshot{
		payer("PETR3", 9, 4_000_000),
		payer("PETR4", 9, 9_000_000), // more liquid listing of the same company
		payer("VALE3", 8, 6_000_000),
	}

	rows := DividendScreen(snaps, DefaultDividendParams())
	got := make(map[string]bool)
	for _, r := range rows {
		got[r.Ticker] = true
	}
	if len(rows) != 2 || !got["PETR4"] || !got["VALE3"] {
		t.Fatalf("expected the liquid PETR listing plus VALE3, got %+v", rows)
	}
}

func TestDividendScreenScoring(t *testing.T) {
	// Seven payers with distinct yields and liquidities. YLD0 has both the
	// highest yield and the highest liquidity.
	var snaps []domain.MarketSnapshot
	for i := 0; i < 7; i++ {
		snaps = append(snaps, payer(
			fmt.Sprintf("YLD%d3", i),
			19-float64(i),
			10_000_000-float64(i)*500_000,
		))
	}

	rows := DividendScreen(snaps, DefaultDividendParams())
	if rows[0].Ticker != "YLD03" || rows[0].Score != 3 {
		t.Fatalf("expected YLD03 on top with score 3, got %+v", rows[0])
	}
	last := rows[len(rows)-1]
	if last.Score != 0 {
		t.Fatalf("expected bottom rows outside both top fives, got %+v", last)
	}
}

func TestTickerRoot(t *testing.T) {
	cases := map[string]string{
		"PETR4":  "PETR",
		"TAEE11": "TAEE",
		"VALE3":  "VALE",
		"ABCD":   "ABCD",
	}
	for in, want := range cases {
		if got := tickerRoot(in); got != want {
			t.Fatalf("tickerRoot(%s) = %s, want %s", in, got, want)
		}
	}
}
