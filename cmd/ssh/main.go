package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"strconv"
	"syscall"
	"time"

	"acionista/internal/analysis"
	"acionista/internal/cache"
	"acionista/internal/config"
	"acionista/internal/db"
	"acionista/internal/ledger"
	"acionista/internal/provider"
	"acionista/internal/repository"
	"acionista/internal/service"
	"acionista/internal/tui"
	"acionista/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	gossh "golang.org/x/crypto/ssh"
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
	newDividendServiceFunc = service.NewDividendService
	newScreenServiceFunc   = service.NewScreenService
	newWishServerFunc      = wish.NewServer
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
)

// sessionCash is the available cash shown in the TUI's analysis view.
// SSH sessions have no argument channel for it, so it comes from env.
func sessionCash() float64 {
	raw := os.Getenv("ANALYSIS_CASH")
	if raw == "" {
		return 0
	}
	cash, err := strconv.ParseFloat(raw, 64)
	if err != nil || cash < 0 {
		log.Printf("Warning: invalid ANALYSIS_CASH %q, using 0", raw)
		return 0
	}
	return cash
}

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Trade ledger: database when available, brokerage CSV otherwise
	tradeRepo := newTradeRepoFunc(db.Pool, tracer)
	var trades service.TradeSource = tradeRepo
	if db.Pool == nil {
		trades = ledger.CSVSource{Path: cfg.LedgerCSVPath}
		log.Printf("no database configured, reading ledger from %s", cfg.LedgerCSVPath)
	}

	// Providers and services
	fundamentus := provider.NewFundamentusProvider(tracer, cfg.FundamentusBaseURL)
	snapshots := newSnapshotProviderFunc(tracer, cfg)

	params := analysis.DefaultParams()
	params.StopLossAlpha = cfg.StopLossAlpha
	params.TakeProfitPct = cfg.TakeProfitPct
	params.MinAvgVolume2M = cfg.MinAvgVolume2M
	params.MonthlySellCap = cfg.MonthlySellCap
	params.Workers = cfg.Workers
	engine := analysis.NewEngine(params)

	snapshotTTL := time.Duration(cfg.SnapshotTTLSecs) * time.Second
	analysisService := newAnalysisServiceFunc(tracer, snapshots, trades, cache.Client, engine, snapshotTTL)
	dividendService := newDividendServiceFunc(tracer, fundamentus, cache.Client)
	screenService := newScreenServiceFunc(tracer, analysisService, dividendService)

	cash := sessionCash()

	// Build Wish SSH server
	addr := fmt.Sprintf("%s:%d", cfg.SSHBind, cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			// The portfolio is single-owner; any key gets in, the
			// fingerprint goes to the log for the audit trail.
			log.Printf("SSH auth accepted: user=%s fingerprint=%s", ctx.User(), gossh.FingerprintSHA256(key))
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				username := s.User()
				if username == "" {
					username = "unknown"
				}

				svc := tui.Services{
					Analysis: analysisService,
					Screens:  screenService,
					Cash:     cash,
					Username: username,
				}

				model := tui.NewAppModel(svc)
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}
