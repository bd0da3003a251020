package provider

import (
	"errors"
	"math"
	"strings"
	"testing"

	"acionista/internal/domain"
)

const snapshotCSV = `Papel,Cotacao,Min_52_sem,Max_52_sem,Div_Yield,ROE,ROIC,Div_Liquida,Div_Bruta,Patrim_Liq,Ativo_Circulante,Lucro_Liquido_3m,Lucro_Liquido_12m,Receita_Liquida_3m,Receita_Liquida_12m,Vol_med_2m,Setor
BBAS3,26.50,22.10,30.40,9.2,18.3,11.0,0,120000000,170000000000,900000000,8000000000,35000000000,28000000000,120000000000,250000000,Bancos
,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,Vazio
TAEE11,34.50,31.00,38.90,8.8,14.2,9.5,5000000000,7000000000,7500000000,2000000000,300000000,1100000000,600000000,2400000000,40000000,Energia Elétrica
`

func TestReadSnapshotCSV(t *testing.T) {
	snapshots, err := ReadSnapshotCSV(strings.NewReader(snapshotCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("expected two snapshots (empty-ticker row skipped), got %d", len(snapshots))
	}
	snap := snapshots[0]
	if snap.Ticker != "BBAS3" || snap.Sector != "Bancos" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if math.Abs(snap.Week52Low-22.10) > 1e-9 || math.Abs(snap.NetIncome3M-8e9) > 1 {
		t.Fatalf("unexpected fields: %+v", snap)
	}
}

func TestReadSnapshotCSVMissingPapelIsFatal(t *testing.T) {
	_, err := ReadSnapshotCSV(strings.NewReader("Ticker,Price\nBBAS3,1\n"))
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}

func TestReadSnapshotCSVEmptyIsFatal(t *testing.T) {
	_, err := ReadSnapshotCSV(strings.NewReader("Papel,Cotacao\n"))
	if err == nil {
		t.Fatal("expected an error for an empty file")
	}
}
