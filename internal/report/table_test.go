package report

import (
	"strings"
	"testing"
	"time"

	"acionista/internal/domain"
)

func sampleReport() domain.Report {
	return domain.Report{
		GeneratedAt:     time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		AvailableCash:   1000,
		MonthlySellCap:  20000,
		SoldThisMonth:   3700,
		RemainingToSell: 16300,
		Sells: []domain.Recommendation{
			{Ticker: "LOSS3", Action: domain.ActionSell, Quantity: 100, SuggestedPrice: 35,
				ExpectedResult: -500, Reasons: []string{"below stop loss"}},
		},
		Buys: []domain.Recommendation{
			{Ticker: "BUY11", Action: domain.ActionBuy, Quantity: 100, SuggestedPrice: 9.8,
				Allocated: 1000, Reasons: []string{"near 52-week low"}},
		},
		Summary: []domain.SummaryRow{
			{Ticker: "LOSS3", Quantity: 100, AverageCost: 40, Quote: 35, CostDiffPct: -12.5},
		},
		Dividends: []domain.DividendRow{
			{Ticker: "LOSS3", DividendYield: 10, DividendPerShare: 3.5,
				YieldPer1000: 98, Quantity: 100, AnnualIncome: 350},
		},
		AvgDividendYield:  10,
		TotalAnnualIncome: 350,
		MonthlyAvgIncome:  29.17,
	}
}

func TestRenderIncludesAllSections(t *testing.T) {
	out := Render(sampleReport())

	for _, want := range []string{
		"Vendas recomendadas", "Compras recomendadas", "Carteira",
		"Dividendos da carteira",
		"LOSS3", "BUY11", "below stop loss", "near 52-week low",
		"R$ 16300.00",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDividendSection(t *testing.T) {
	out := Render(sampleReport())

	for _, want := range []string{
		"Renda anual", "R$ 350.00", "R$ 98.00",
		"DY médio da carteira: 10.00%",
		"Dividendos anuais: R$ 350.00",
		"Média mensal: R$ 29.17",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dividend summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmptyReport(t *testing.T) {
	out := Render(domain.Report{MonthlySellCap: 20000, RemainingToSell: 20000})

	if !strings.Contains(out, "nenhuma venda recomendada") {
		t.Fatalf("expected empty-sells placeholder:\n%s", out)
	}
	if !strings.Contains(out, "nenhuma compra recomendada") {
		t.Fatalf("expected empty-buys placeholder:\n%s", out)
	}
	if !strings.Contains(out, "carteira vazia") {
		t.Fatalf("expected empty-portfolio placeholder:\n%s", out)
	}
	if !strings.Contains(out, "sem dados de dividendos") {
		t.Fatalf("expected empty-dividends placeholder:\n%s", out)
	}
}

func TestRenderScreenFlagsOutliers(t *testing.T) {
	rows := []domain.ScreenRow{
		{Ticker: "GOOD3", Quote: 30, Yield: 8, Score: 3},
		{Ticker: "TRAP3", Quote: 4, Yield: 19, Score: 1, Outlier: true},
	}
	out := RenderScreen("Ranking por dividendos", rows)

	if !strings.Contains(out, "Ranking por dividendos") || !strings.Contains(out, "TRAP3") {
		t.Fatalf("screen render incomplete:\n%s", out)
	}
	if !strings.Contains(out, "outlier") {
		t.Fatalf("expected outlier flag in output:\n%s", out)
	}
}
