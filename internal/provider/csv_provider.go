package provider

import (
	"context"

	"acionista/internal/domain"
)

// CSVSnapshotProvider serves snapshots from the fundamentus CSV export
// instead of scraping, for offline and reproducible runs.
type CSVSnapshotProvider struct {
	Path string
}

func (p CSVSnapshotProvider) FetchUniverse(_ context.Context) ([]domain.MarketSnapshot, error) {
	return ReadSnapshotCSVFile(p.Path)
}

// FetchSnapshots filters the file down to the requested tickers. A CSV
// export already carries full detail per row, so no second pass is needed.
func (p CSVSnapshotProvider) FetchSnapshots(_ context.Context, tickers []string) ([]domain.MarketSnapshot, error) {
	all, err := ReadSnapshotCSVFile(p.Path)
	if err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		want[t] = true
	}
	var out []domain.MarketSnapshot
	for _, snap := range all {
		if want[snap.Ticker] {
			out = append(out, snap)
		}
	}
	return out, nil
}
