// Package provider fetches market and fundamentals data from external
// sources. fundamentus.com.br serves HTML only, so both the screening
// table and the per-ticker detail pages are scraped with goquery.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"acionista/internal/domain"
	"acionista/internal/ledger"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/trace"
)

const (
	fundamentusBaseURL = "https://www.fundamentus.com.br"

	// fundamentus rejects Go's default user agent.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

type FundamentusProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewFundamentusProvider(tracer trace.Tracer, baseURL string) *FundamentusProvider {
	if baseURL == "" {
		baseURL = fundamentusBaseURL
	}
	return &FundamentusProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		tracer:  tracer,
		limiter: NewRateLimiter(4, time.Second),
	}
}

func (p *FundamentusProvider) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fundamentus %s: status %d", path, resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// FetchUniverse scrapes the resultado.php screening table: one row of
// headline multiples per listed ticker. Detail-page-only fields (52-week
// bounds, statement figures) stay zero until FetchDetail fills them.
func (p *FundamentusProvider) FetchUniverse(ctx context.Context) ([]domain.MarketSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "fundamentus.fetch-universe")
	defer span.End()

	doc, err := p.fetchDocument(ctx, "/resultado.php")
	if err != nil {
		return nil, domain.NewFetchError("fundamentus", err)
	}

	headers := []string{}
	doc.Find("table#resultado thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	col := make(map[string]int, len(headers))
	for i, h := range headers {
		col[h] = i
	}
	if _, ok := col["Papel"]; !ok {
		return nil, domain.NewFetchError("fundamentus", fmt.Errorf("resultado table missing Papel column"))
	}

	var snapshots []domain.MarketSnapshot
	doc.Find("table#resultado tbody tr").Each(func(_ int, tr *goquery.Selection) {
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

		ticker := strings.ToUpper(cell("Papel"))
		if ticker == "" {
			return
		}
		snap := domain.MarketSnapshot{Ticker: ticker}
		var parseErr error
		read := func(name string) float64 {
			v, err := parseCell(cell(name))
			if err != nil && parseErr == nil {
				parseErr = fmt.Errorf("column %q: %w", name, err)
			}
			return v
		}
		snap.Quote = read("Cotação")
		snap.PL = read("P/L")
		snap.PVP = read("P/VP")
		snap.DividendYield = read("Div.Yield")
		snap.ROIC = read("ROIC")
		snap.ROE = read("ROE")
		snap.AvgVolume2M = read("Liq.2meses")
		snap.RevenueGrowth5Y = read("Cresc. Rec.5a")
		if parseErr != nil {
			log := fmt.Sprintf("fundamentus: skipping %s: %v", ticker, parseErr)
			span.AddEvent(log)
			return
		}
		snapshots = append(snapshots, snap)
	})

	if len(snapshots) == 0 {
		return nil, domain.NewFetchError("fundamentus", fmt.Errorf("resultado table yielded no rows"))
	}
	return snapshots, nil
}

// FetchDetail scrapes a ticker's detalhes.php page. Labels repeat for
// the 12-month / 3-month statement columns; occurrences are taken in
// document order.
func (p *FundamentusProvider) FetchDetail(ctx context.Context, ticker string) (domain.MarketSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "fundamentus.fetch-detail")
	defer span.End()

	ticker = ledger.NormalizeTicker(ticker)
	doc, err := p.fetchDocument(ctx, "/detalhes.php?papel="+ticker)
	if err != nil {
		return domain.MarketSnapshot{}, domain.NewFetchError("fundamentus", err)
	}

	values := map[string][]string{}
	doc.Find("td.label").Each(func(_ int, label *goquery.Selection) {
		key := strings.TrimSpace(label.Text())
		key = strings.TrimPrefix(key, "?")
		data := label.NextFiltered("td.data")
		if data.Length() == 0 {
			return
		}
		values[key] = append(values[key], strings.TrimSpace(data.Text()))
	})

	first := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	nth := func(key string, i int) string {
		if v := values[key]; len(v) > i {
			return v[i]
		}
		return ""
	}
	num := func(s string) float64 {
		v, _ := parseCell(s)
		return v
	}

	if first("Papel") == "" {
		return domain.MarketSnapshot{}, fmt.Errorf("fundamentus: no detail page for %s", ticker)
	}

	snap := domain.MarketSnapshot{
		Ticker:          ticker,
		Sector:          first("Setor"),
		Quote:           num(first("Cotação")),
		Week52Low:       num(first("Min 52 sem")),
		Week52High:      num(first("Max 52 sem")),
		DividendYield:   num(first("Div. Yield")),
		PL:              num(first("P/L")),
		PVP:             num(first("P/VP")),
		ROE:             num(first("ROE")),
		ROIC:            num(first("ROIC")),
		NetDebt:         num(first("Dív. Líquida")),
		GrossDebt:       num(first("Dív. Bruta")),
		Equity:          num(first("Patrim. Líq")),
		CurrentAssets:   num(first("Ativo Circulante")),
		AvgVolume2M:     num(first("Vol $ méd (2m)")),
		NetIncome12M:    num(nth("Lucro Líquido", 0)),
		NetIncome3M:     num(nth("Lucro Líquido", 1)),
		NetRevenue12M:   num(nth("Receita Líquida", 0)),
		NetRevenue3M:    num(nth("Receita Líquida", 1)),
		RevenueGrowth5Y: num(first("Cres. Rec (5a)")),
	}
	return snap, nil
}

// FetchSnapshots builds the full analysis universe: the screening table
// for the ticker list, then one detail page per ticker. Any detail
// failure is systemic — a partial universe must not reach the engine.
func (p *FundamentusProvider) FetchSnapshots(ctx context.Context, tickers []string) ([]domain.MarketSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "fundamentus.fetch-snapshots")
	defer span.End()

	snapshots := make([]domain.MarketSnapshot, 0, len(tickers))
	for _, ticker := range tickers {
		snap, err := p.FetchDetail(ctx, ticker)
		if err != nil {
			return nil, domain.NewFetchError("fundamentus", fmt.Errorf("detail %s: %w", ticker, err))
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// parseCell reads a fundamentus cell: Brazilian separators, optional
// '%' suffix, empty or '-' as zero.
func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	return ledger.ParseBRNumber(s)
}
