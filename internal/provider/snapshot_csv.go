package provider

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"acionista/internal/domain"
)

// ReadSnapshotCSV loads a previously exported fundamentals file
// (resultado.csv): plain comma-separated, dot decimals, one snapshot per
// ticker. Used as the offline source when scraping is not wanted.
func ReadSnapshotCSV(r io.Reader) ([]domain.MarketSnapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, domain.NewFetchError("snapshot-csv", fmt.Errorf("read header: %w", err))
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["Papel"]; !ok {
		return nil, domain.NewFetchError("snapshot-csv", fmt.Errorf("missing Papel column"))
	}

	var snapshots []domain.MarketSnapshot
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("snapshot-csv: skipping line %d: %v", line, err)
			continue
		}

		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		var parseErr error
		num := func(name string) float64 {
			s := cell(name)
			if s == "" {
				return 0
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil && parseErr == nil {
				parseErr = fmt.Errorf("column %q: %w", name, err)
			}
			return v
		}

		snap := domain.MarketSnapshot{
			Ticker:          strings.ToUpper(cell("Papel")),
			Sector:          cell("Setor"),
			Quote:           num("Cotacao"),
			Week52Low:       num("Min_52_sem"),
			Week52High:      num("Max_52_sem"),
			DividendYield:   num("Div_Yield"),
			PL:              num("P_L"),
			PVP:             num("P_VP"),
			ROE:             num("ROE"),
			ROIC:            num("ROIC"),
			NetDebt:         num("Div_Liquida"),
			GrossDebt:       num("Div_Bruta"),
			Equity:          num("Patrim_Liq"),
			CurrentAssets:   num("Ativo_Circulante"),
			NetIncome3M:     num("Lucro_Liquido_3m"),
			NetIncome12M:    num("Lucro_Liquido_12m"),
			NetRevenue3M:    num("Receita_Liquida_3m"),
			NetRevenue12M:   num("Receita_Liquida_12m"),
			AvgVolume2M:     num("Vol_med_2m"),
			RevenueGrowth5Y: num("Cresc_Rec_5a"),
		}
		if snap.Ticker == "" {
			log.Printf("snapshot-csv: skipping line %d: empty ticker", line)
			continue
		}
		if parseErr != nil {
			log.Printf("snapshot-csv: skipping %s: %v", snap.Ticker, parseErr)
			continue
		}
		snapshots = append(snapshots, snap)
	}

	if len(snapshots) == 0 {
		return nil, domain.NewFetchError("snapshot-csv", fmt.Errorf("file has no usable rows"))
	}
	return snapshots, nil
}

// ReadSnapshotCSVFile is ReadSnapshotCSV over a file path.
func ReadSnapshotCSVFile(path string) ([]domain.MarketSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewFetchError("snapshot-csv", err)
	}
	defer f.Close()
	return ReadSnapshotCSV(f)
}
