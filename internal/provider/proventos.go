package provider

import (
	"context"
	"sort"
	"strings"
	"time"

	"acionista/internal/domain"
	"acionista/internal/ledger"

	"github.com/PuerkitoBio/goquery"
)

// FetchProventos scrapes a ticker's distribution history from
// proventos.php. An absent table means the ticker simply never paid;
// that returns an empty slice, not an error.
func (p *FundamentusProvider) FetchProventos(ctx context.Context, ticker string) ([]domain.DividendEvent, error) {
	ctx, span := p.tracer.Start(ctx, "fundamentus.fetch-proventos")
	defer span.End()

	ticker = ledger.NormalizeTicker(ticker)
	doc, err := p.fetchDocument(ctx, "/proventos.php?papel="+ticker)
	if err != nil {
		return nil, domain.NewFetchError("proventos", err)
	}

	table := doc.Find("table#resultado")
	if table.Length() == 0 {
		return nil, nil
	}

	headers := []string{}
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	col := make(map[string]int, len(headers))
	for i, h := range headers {
		col[h] = i
	}

	var events []domain.DividendEvent
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(cells) {
				return ""
			}
			return cells[i]
		}

		date, err := time.Parse("02/01/2006", cell("Data"))
		if err != nil {
			return
		}
		amount, err := ledger.ParseBRNumber(cell("Valor"))
		if err != nil || amount <= 0 {
			return
		}

		event := domain.DividendEvent{
			Ticker: ticker,
			Kind:   classifyProvento(cell("Tipo")),
			Date:   date,
			Amount: amount,
		}
		if payment, err := time.Parse("02/01/2006", cell("Data de Pagamento")); err == nil {
			event.Payment = &payment
		}
		events = append(events, event)
	})

	sort.Slice(events, func(i, j int) bool { return events[i].Date.After(events[j].Date) })
	return events, nil
}

func classifyProvento(kind string) domain.DividendKind {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if strings.Contains(kind, "jrs") || strings.Contains(kind, "juros") || strings.Contains(kind, "jscp") {
		return domain.KindJCP
	}
	return domain.KindDividend
}

// BuildDividendHistory aggregates raw events into the record the
// consistency screen works from: distinct paying years, the 5-year
// consistency flag and the 3-year average yield at the given quote.
func BuildDividendHistory(ticker string, events []domain.DividendEvent, quote float64, now time.Time) domain.DividendHistory {
	history := domain.DividendHistory{Ticker: ticker, Events: events}

	years := map[int]bool{}
	for _, e := range events {
		years[e.Date.Year()] = true
	}
	history.YearsPaying = len(years)
	history.Consistent5Y = history.YearsPaying >= 5

	threeYearsAgo := now.AddDate(-3, 0, 0)
	oneYearAgo := now.AddDate(-1, 0, 0)
	var last3y, last12m float64
	for _, e := range events {
		if e.Date.After(threeYearsAgo) {
			last3y += e.Amount
		}
		if e.Date.After(oneYearAgo) {
			last12m += e.Amount
		}
	}
	history.TrailingPerShare = last12m
	if quote > 0 {
		history.AvgYield3YPct = last3y / 3 / quote * 100
	}
	return history
}
