package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"acionista/internal/advisor"
	"acionista/internal/analysis"
	"acionista/internal/bot"
	"acionista/internal/cache"
	"acionista/internal/config"
	"acionista/internal/db"
	"acionista/internal/handler"
	"acionista/internal/job"
	"acionista/internal/ledger"
	"acionista/internal/provider"
	"acionista/internal/repository"
	"acionista/internal/service"
	"acionista/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "acionista/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newTradeRepoFunc = repository.NewTradeRepository
	newConvRepoFunc  = repository.NewConversationRepository
	newSnapshotProviderFunc = func(tracer trace.Tracer, cfg *config.Config) service.SnapshotProvider {
		if cfg.SnapshotCSVPath != "" {
			return provider.CSVSnapshotProvider{Path: cfg.SnapshotCSVPath}
		}
		return provider.NewFundamentusProvider(tracer, cfg.FundamentusBaseURL)
	}
	newAnalysisServiceFunc = service.NewAnalysisService
	newDividendServiceFunc = service.NewDividendService
	newScreenServiceFunc   = service.NewScreenService
	newSnapshotPollerFunc  = job.NewSnapshotPoller
	startPollerFunc        = func(p *job.SnapshotPoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newOpenAIClientFunc    = advisor.NewOpenAIClient
	newAdvisorServiceFunc  = advisor.NewAdvisorService
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Acionista API
// @version         1.0
// @description     Fundamental analysis and capital allocation for B3 equities.

// @host      localhost:8080
// @BasePath  /
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

	// Create repositories and run migrations
	tradeRepo := newTradeRepoFunc(db.Pool, tracer)
	convRepo := newConvRepoFunc(db.Pool, tracer)
	if db.Pool != nil {
		if err := tradeRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		if err := convRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Trade ledger: database when available, brokerage CSV otherwise
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

	// Start snapshot poller (background goroutine, stopped by ctx cancel)
	poller := newSnapshotPollerFunc(tracer, analysisService, cfg.SnapshotPollSecs)
	startPollerFunc(poller, ctx)

	// Advisor (optional)
	var advisorSvc *advisor.AdvisorService
	if cfg.OpenAIAPIKey != "" {
		llmClient := newOpenAIClientFunc(cfg.OpenAIAPIKey)
		advisorSvc = newAdvisorServiceFunc(tracer, llmClient, analysisService, dividendService,
			convRepo, cfg.OpenAIModel, cfg.AdvisorMaxHistory)
		log.Println("Advisor service enabled")
	}

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(analysisService, dividendService, advisorSvc)

	// Create handlers and routes
	h := newHandlerFunc(tracer, analysisService, screenService, dividendService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware(tracing.ServiceName()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes registered after this point require the API key when one is set
	r.Use(handler.APIKeyAuth(cfg.APIKey))
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
