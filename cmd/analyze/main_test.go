package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"acionista/internal/config"
	"acionista/internal/domain"
	"acionista/internal/service"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const testStatement = "Dt. Negociação;Ativo;Quantidade Compra;Financeiro Compra;Quantidade Venda;Financeiro Venda\n" +
	"05/03/2026;HELD3;100;1.000,00;0;0,00\n"

type stubProvider struct{}

func (stubProvider) FetchUniverse(ctx context.Context) ([]domain.MarketSnapshot, error) {
	return []domain.MarketSnapshot{snapshot("CAND3")}, nil
}

func (stubProvider) FetchSnapshots(ctx context.Context, tickers []string) ([]domain.MarketSnapshot, error) {
	var out []domain.MarketSnapshot
	for _, t := range tickers {
		out = append(out, snapshot(t))
	}
	return out, nil
}

func snapshot(ticker string) domain.MarketSnapshot {
	return domain.MarketSnapshot{
		Ticker:      ticker,
		Quote:       10,
		Week52Low:   9.5,
		Week52High:  15,
		AvgVolume2M: 500_000,
		Equity:      1000,
	}
}

func stubAnalyzeDeps(t *testing.T, args []string) (stdoutBuf, stderrBuf *bytes.Buffer, exitCodes *[]int) {
	t.Helper()

	statementPath := filepath.Join(t.TempDir(), "ResumoNegociacao.csv")
	if err := os.WriteFile(statementPath, []byte(testStatement), 0o644); err != nil {
		t.Fatalf("write statement: %v", err)
	}

	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origNewProvider := newSnapshotProviderFunc
	origExit := exitFunc
	origStdout := stdout
	origStderr := stderr
	origArgs := cliArgs
	t.Cleanup(func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		newSnapshotProviderFunc = origNewProvider
		exitFunc = origExit
		stdout = origStdout
		stderr = origStderr
		cliArgs = origArgs
	})

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			LedgerCSVPath:   statementPath,
			SnapshotTTLSecs: 1,
			MonthlySellCap:  20_000,
			StopLossAlpha:   0.5,
			TakeProfitPct:   0.10,
			MinAvgVolume2M:  100_000,
		}
	}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newSnapshotProviderFunc = func(trace.Tracer, *config.Config) service.SnapshotProvider {
		return stubProvider{}
	}

	stdoutBuf = &bytes.Buffer{}
	stderrBuf = &bytes.Buffer{}
	stdout = stdoutBuf
	stderr = stderrBuf

	codes := []int{}
	exitCodes = &codes
	exitFunc = func(code int) { codes = append(codes, code) }
	cliArgs = func() []string { return args }

	return stdoutBuf, stderrBuf, exitCodes
}

func TestMainPrintsReport(t *testing.T) {
	stdoutBuf, stderrBuf, exitCodes := stubAnalyzeDeps(t, []string{"analyze", "1000"})

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("main did not exit")
	}

	if len(*exitCodes) != 0 {
		t.Fatalf("unexpected exit codes %v, stderr: %s", *exitCodes, stderrBuf.String())
	}
	out := stdoutBuf.String()
	if !strings.Contains(out, "Carteira") {
		t.Fatalf("report missing portfolio section:\n%s", out)
	}
	if !strings.Contains(out, "HELD3") {
		t.Fatalf("report missing held ticker:\n%s", out)
	}
}

func TestMainRequiresCashArgument(t *testing.T) {
	_, stderrBuf, exitCodes := stubAnalyzeDeps(t, []string{"analyze"})

	main()

	if len(*exitCodes) == 0 || (*exitCodes)[0] != 1 {
		t.Fatalf("expected exit code 1, got %v", *exitCodes)
	}
	if !strings.Contains(stderrBuf.String(), "usage:") {
		t.Fatalf("expected usage message, got: %s", stderrBuf.String())
	}
}

func TestMainRejectsBadCash(t *testing.T) {
	_, stderrBuf, exitCodes := stubAnalyzeDeps(t, []string{"analyze", "abc"})

	main()

	if len(*exitCodes) == 0 || (*exitCodes)[0] != 1 {
		t.Fatalf("expected exit code 1, got %v", *exitCodes)
	}
	if !strings.Contains(stderrBuf.String(), "invalid available cash") {
		t.Fatalf("unexpected stderr: %s", stderrBuf.String())
	}

	// "--" keeps the negative amount out of flag parsing.
	_, _, exitCodes = stubAnalyzeDeps(t, []string{"analyze", "--", "-50"})

	main()

	if len(*exitCodes) == 0 || (*exitCodes)[0] != 1 {
		t.Fatalf("expected exit code 1 for negative cash, got %v", *exitCodes)
	}
}

func TestMainLedgerFlagOverridesConfig(t *testing.T) {
	stdoutBuf, stderrBuf, exitCodes := stubAnalyzeDeps(t, nil)

	altPath := filepath.Join(t.TempDir(), "alt.csv")
	alt := "Dt. Negociação;Ativo;Quantidade Compra;Financeiro Compra;Quantidade Venda;Financeiro Venda\n" +
		"10/04/2026;ALTX3;50;500,00;0;0,00\n"
	if err := os.WriteFile(altPath, []byte(alt), 0o644); err != nil {
		t.Fatalf("write statement: %v", err)
	}
	cliArgs = func() []string { return []string{"analyze", "-ledger", altPath, "1000"} }

	main()

	if len(*exitCodes) != 0 {
		t.Fatalf("unexpected exit codes %v, stderr: %s", *exitCodes, stderrBuf.String())
	}
	if !strings.Contains(stdoutBuf.String(), "ALTX3") {
		t.Fatalf("expected flag-supplied ledger to be used:\n%s", stdoutBuf.String())
	}
}
