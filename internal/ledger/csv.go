// Package ledger loads the externally-owned trade ledger. The B3 broker
// statement (ResumoNegociacao.csv) is the file-based source; the
// Postgres trades table in internal/repository is the other.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"acionista/internal/domain"
)

// Column headers of the broker statement.
const (
	colDate      = "Dt. Negociação"
	colTicker    = "Ativo"
	colBuyQty    = "Quantidade Compra"
	colBuyGross  = "Financeiro Compra"
	colSellQty   = "Quantidade Venda"
	colSellGross = "Financeiro Venda"
)

// ReadCSV parses a B3 broker statement: ';' separated, ',' decimals,
// '.' thousands, dd/mm/yyyy dates. A statement row carries buy and sell
// totals side by side, so one row can yield up to two trades. Malformed
// rows are skipped and logged; a missing header is systemic and fails
// the whole load.
func ReadCSV(r io.Reader) ([]domain.Trade, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, domain.NewFetchError("ledger", fmt.Errorf("read header: %w", err))
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDate, colTicker, colBuyQty, colBuyGross, colSellQty, colSellGross} {
		if _, ok := idx[required]; !ok {
			return nil, domain.NewFetchError("ledger", fmt.Errorf("statement missing column %q", required))
		}
	}

	var trades []domain.Trade
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("ledger: skipping line %d: %v", line, err)
			continue
		}

		field := func(name string) string {
			i := idx[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		date, err := time.Parse("02/01/2006", field(colDate))
		if err != nil {
			log.Printf("ledger: skipping line %d: bad date %q", line, field(colDate))
			continue
		}
		ticker := NormalizeTicker(field(colTicker))
		if ticker == "" {
			log.Printf("ledger: skipping line %d: empty ticker", line)
			continue
		}

		buyQty, err1 := parseInt(field(colBuyQty))
		buyGross, err2 := ParseBRNumber(field(colBuyGross))
		sellQty, err3 := parseInt(field(colSellQty))
		sellGross, err4 := ParseBRNumber(field(colSellGross))
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			log.Printf("ledger: skipping line %d (%s): unparseable amounts", line, ticker)
			continue
		}

		if buyQty > 0 {
			trades = append(trades, domain.Trade{
				Ticker: ticker, Side: domain.SideBuy,
				Quantity: buyQty, Gross: buyGross, Date: date,
			})
		}
		if sellQty > 0 {
			trades = append(trades, domain.Trade{
				Ticker: ticker, Side: domain.SideSell,
				Quantity: sellQty, Gross: sellGross, Date: date,
			})
		}
	}

	if len(trades) == 0 {
		return nil, domain.NewFetchError("ledger", fmt.Errorf("statement has no usable rows"))
	}

	sort.SliceStable(trades, func(i, j int) bool { return trades[i].Date.Before(trades[j].Date) })
	return trades, nil
}

// ReadCSVFile is ReadCSV over a file path.
func ReadCSVFile(path string) ([]domain.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewFetchError("ledger", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// NormalizeTicker trims whitespace and drops the fractional-market 'F'
// suffix (PETR4F → PETR4) so statement rows join with fundamentus.
func NormalizeTicker(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if n := len(ticker); n > 1 && ticker[n-1] == 'F' && ticker[n-2] >= '0' && ticker[n-2] <= '9' {
		ticker = ticker[:n-1]
	}
	return ticker
}

// ParseBRNumber reads Brazilian-formatted numbers: "1.234,56" → 1234.56.
// Empty strings read as zero, matching blank statement cells.
func ParseBRNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

func parseInt(s string) (int, error) {
	v, err := ParseBRNumber(s)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
