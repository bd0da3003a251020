package ledger

import (
	"context"

	"acionista/internal/domain"
)

// CSVSource serves the ledger straight from a brokerage statement file,
// for running without a database.
type CSVSource struct {
	Path string
}

func (s CSVSource) ListTrades(_ context.Context) ([]domain.Trade, error) {
	return ReadCSVFile(s.Path)
}
