// Package report renders a recommendation report as styled terminal
// tables, for the CLI and the SSH surface alike.
package report

import (
	"fmt"
	"strings"

	"acionista/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	sellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	buyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			MarginTop(1)
)

// Render lays out the full report: sells, buys, the portfolio summary,
// the dividend summary and the monthly sell-cap footer.
func Render(r domain.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Vendas recomendadas"))
	b.WriteString("\n")
	b.WriteString(renderSells(r.Sells))
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Compras recomendadas"))
	b.WriteString("\n")
	b.WriteString(renderBuys(r.Buys))
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Carteira"))
	b.WriteString("\n")
	b.WriteString(renderSummary(r.Summary))
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Dividendos da carteira"))
	b.WriteString("\n")
	b.WriteString(renderDividends(r.Dividends))
	b.WriteString("\n")

	b.WriteString(footerStyle.Render(fmt.Sprintf(
		"Caixa disponível: %s | Limite mensal de venda: %s | Vendido no mês: %s | Restante: %s",
		money(r.AvailableCash), money(r.MonthlySellCap), money(r.SoldThisMonth), money(r.RemainingToSell),
	)))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf(
		"DY médio da carteira: %.2f%% | Dividendos anuais: %s | Média mensal: %s",
		r.AvgDividendYield, money(r.TotalAnnualIncome), money(r.MonthlyAvgIncome),
	)))
	b.WriteString("\n")
	return b.String()
}

func renderSells(sells []domain.Recommendation) string {
	if len(sells) == 0 {
		return footerStyle.Render("nenhuma venda recomendada")
	}
	t := newTable("Papel", "Qtd", "Cotação", "Resultado esperado", "Motivo")
	for _, rec := range sells {
		t.Row(
			sellStyle.Render(rec.Ticker),
			fmt.Sprintf("%d", rec.Quantity),
			money(rec.SuggestedPrice),
			money(rec.ExpectedResult),
			strings.Join(rec.Reasons, "; "),
		)
	}
	return t.Render()
}

func renderBuys(buys []domain.Recommendation) string {
	if len(buys) == 0 {
		return footerStyle.Render("nenhuma compra recomendada")
	}
	t := newTable("Papel", "Qtd", "Preço sugerido", "Alocado", "Motivo")
	for _, rec := range buys {
		t.Row(
			buyStyle.Render(rec.Ticker),
			fmt.Sprintf("%d", rec.Quantity),
			money(rec.SuggestedPrice),
			money(rec.Allocated),
			strings.Join(rec.Reasons, "; "),
		)
	}
	return t.Render()
}

func renderSummary(rows []domain.SummaryRow) string {
	if len(rows) == 0 {
		return footerStyle.Render("carteira vazia")
	}
	t := newTable("Papel", "Qtd", "Preço médio", "Cotação", "Dif %")
	for _, row := range rows {
		t.Row(
			row.Ticker,
			fmt.Sprintf("%d", row.Quantity),
			money(row.AverageCost),
			money(row.Quote),
			fmt.Sprintf("%+.1f%%", row.CostDiffPct),
		)
	}
	return t.Render()
}

func renderDividends(rows []domain.DividendRow) string {
	if len(rows) == 0 {
		return footerStyle.Render("sem dados de dividendos")
	}
	t := newTable("Papel", "DY %", "Div/ação", "R$/1000 alocados", "Qtd", "Renda anual")
	for _, row := range rows {
		t.Row(
			row.Ticker,
			fmt.Sprintf("%.2f", row.DividendYield),
			money(row.DividendPerShare),
			money(row.YieldPer1000),
			fmt.Sprintf("%d", row.Quantity),
			money(row.AnnualIncome),
		)
	}
	return t.Render()
}

// RenderScreen lays out one screening variant, flagging outlier rows.
func RenderScreen(title string, rows []domain.ScreenRow) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(footerStyle.Render("nenhum papel passou no filtro"))
		b.WriteString("\n")
		return b.String()
	}

	t := newTable("Papel", "Setor", "Cotação", "P/L", "P/VP", "DY %", "ROE %", "Liquidez", "Score", "")
	for _, row := range rows {
		flag := ""
		if row.Outlier {
			flag = sellStyle.Render("outlier")
		}
		t.Row(
			row.Ticker,
			row.Sector,
			money(row.Quote),
			fmt.Sprintf("%.2f", row.PL),
			fmt.Sprintf("%.2f", row.PVP),
			fmt.Sprintf("%.2f", row.Yield),
			fmt.Sprintf("%.2f", row.ROE),
			fmt.Sprintf("%.0f", row.Liquidity),
			fmt.Sprintf("%d", row.Score),
			flag,
		)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...)
}

func money(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}
