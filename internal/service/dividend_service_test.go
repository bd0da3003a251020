package service

import (
	"context"
	"testing"
	"time"

	"acionista/internal/domain"
)

type mockDividendProvider struct {
	events      []domain.DividendEvent
	detail      domain.MarketSnapshot
	eventCalls  int
	detailCalls int
}

func (m *mockDividendProvider) FetchProventos(_ context.Context, _ string) ([]domain.DividendEvent, error) {
	m.eventCalls++
	return m.events, nil
}

func (m *mockDividendProvider) FetchDetail(_ context.Context, _ string) (domain.MarketSnapshot, error) {
	m.detailCalls++
	return m.detail, nil
}

func yearlyDividends(now time.Time, years int, value float64) []domain.DividendEvent {
	var events []domain.DividendEvent
	for i := 0; i < years; i++ {
		events = append(events, domain.DividendEvent{
			Ticker: "TAEE11",
			Kind:   domain.KindDividend,
			Amount: value,
			Date:   now.AddDate(-i, 0, 0),
		})
	}
	return events
}

func TestDividendService_HistorySummarizes(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	provider := &mockDividendProvider{
		events: yearlyDividends(now, 6, 2.0),
		detail: domain.MarketSnapshot{Ticker: "TAEE11", Quote: 40},
	}
	svc := NewDividendService(testTracer, provider, nil)
	svc.now = func() time.Time { return now }

	history, err := svc.History(context.Background(), "TAEE11")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history.YearsPaying != 6 || !history.Consistent5Y {
		t.Fatalf("expected six consistent paying years, got %+v", history)
	}
	// Three payments of 2.00 in the last three years over a 40.00 quote.
	if history.AvgYield3YPct < 4.9 || history.AvgYield3YPct > 5.1 {
		t.Fatalf("expected ~5%% average yield, got %f", history.AvgYield3YPct)
	}
}

func TestDividendService_HistoryCached(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	provider := &mockDividendProvider{
		events: yearlyDividends(now, 3, 1.0),
		detail: domain.MarketSnapshot{Ticker: "TAEE11", Quote: 40},
	}
	r := newFakeRedis()
	svc := NewDividendService(testTracer, provider, r)
	svc.now = func() time.Time { return now }

	if _, err := svc.History(context.Background(), "TAEE11"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.data["dividends:TAEE11"]; !ok {
		t.Fatal("history not cached")
	}

	if _, err := svc.History(context.Background(), "TAEE11"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.eventCalls != 1 || provider.detailCalls != 1 {
		t.Fatalf("second call should hit the cache, got %d/%d calls", provider.eventCalls, provider.detailCalls)
	}
}
