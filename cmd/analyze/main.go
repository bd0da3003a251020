package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"acionista/internal/analysis"
	"acionista/internal/cache"
	"acionista/internal/config"
	"acionista/internal/db"
	"acionista/internal/ledger"
	"acionista/internal/provider"
	"acionista/internal/report"
	"acionista/internal/repository"
	"acionista/internal/service"
	"acionista/pkg/tracing"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newTradeRepoFunc = repository.NewTradeRepository
	newSnapshotProviderFunc = func(tracer trace.Tracer, cfg *config.Config) service.SnapshotProvider {
		if cfg.SnapshotCSVPath != "" {
			return provider.CSVSnapshotProvider{Path: cfg.SnapshotCSVPath}
		}
		return provider.NewFundamentusProvider(tracer, cfg.FundamentusBaseURL)
	}
	newAnalysisServiceFunc = service.NewAnalysisService
	exitFunc               = os.Exit
	stdout                 io.Writer = os.Stdout
	stderr                 io.Writer = os.Stderr
	cliArgs                = func() []string { return os.Args }
)

const usage = "usage: analyze [-ledger path] [-snapshots path] <available-cash>\n\nRuns one buy/sell analysis over the trade ledger and prints the report."

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	args := cliArgs()
	flags := flag.NewFlagSet("analyze", flag.ContinueOnError)
	flags.SetOutput(stderr)
	ledgerPath := flags.String("ledger", "", "B3 broker statement CSV (overrides LEDGER_CSV_PATH)")
	snapshotPath := flags.String("snapshots", "", "fundamentus resultado.csv export (overrides SNAPSHOT_CSV_PATH)")
	if err := flags.Parse(args[1:]); err != nil {
		exitFunc(1)
		return
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, usage)
		exitFunc(1)
		return
	}
	cash, err := strconv.ParseFloat(flags.Arg(0), 64)
	if err != nil || cash < 0 {
		fmt.Fprintf(stderr, "invalid available cash %q: must be a non-negative number\n", flags.Arg(0))
		exitFunc(1)
		return
	}
	if *ledgerPath != "" {
		cfg.LedgerCSVPath = *ledgerPath
	}
	if *snapshotPath != "" {
		cfg.SnapshotCSVPath = *snapshotPath
	}

	ctx := context.Background()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Trade ledger: database when configured, brokerage CSV otherwise
	var trades service.TradeSource = ledger.CSVSource{Path: cfg.LedgerCSVPath}
	if cfg.DatabaseURL != "" {
		os.Setenv("DATABASE_URL", cfg.DatabaseURL)
		initPostgresFunc(ctx)
		if db.Pool != nil {
			trades = newTradeRepoFunc(db.Pool, tracer)
		}
	}

	// Redis is optional for a one-shot run; without it every snapshot
	// comes straight from the provider.
	var redisClient service.RedisClient
	if cfg.RedisURL != "" {
		os.Setenv("REDIS_URL", cfg.RedisURL)
		initRedisFunc(ctx)
		redisClient = cache.Client
	}

	snapshots := newSnapshotProviderFunc(tracer, cfg)

	params := analysis.DefaultParams()
	params.StopLossAlpha = cfg.StopLossAlpha
	params.TakeProfitPct = cfg.TakeProfitPct
	params.MinAvgVolume2M = cfg.MinAvgVolume2M
	params.MonthlySellCap = cfg.MonthlySellCap
	params.Workers = cfg.Workers
	engine := analysis.NewEngine(params)

	snapshotTTL := time.Duration(cfg.SnapshotTTLSecs) * time.Second
	analysisService := newAnalysisServiceFunc(tracer, snapshots, trades, redisClient, engine, snapshotTTL)

	rpt, err := analysisService.Run(ctx, cash)
	if err != nil {
		fmt.Fprintf(stderr, "analysis failed: %v\n", err)
		exitFunc(1)
		return
	}

	fmt.Fprintln(stdout, report.Render(rpt))
}
