package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"acionista/internal/analysis"
	"acionista/internal/domain"
	"acionista/internal/portfolio"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

// SnapshotProvider yields fundamental snapshots, either scraped live or
// read from an exported CSV.
type SnapshotProvider interface {
	FetchUniverse(ctx context.Context) ([]domain.MarketSnapshot, error)
	FetchSnapshots(ctx context.Context, tickers []string) ([]domain.MarketSnapshot, error)
}

// TradeSource yields the brokerage ledger, oldest trade first.
type TradeSource interface {
	ListTrades(ctx context.Context) ([]domain.Trade, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

const snapshotCacheKey = "snapshots:analysis"

type AnalysisService struct {
	tracer      trace.Tracer
	provider    SnapshotProvider
	trades      TradeSource
	redis       RedisClient
	engine      *analysis.Engine
	snapshotTTL time.Duration
	now         func() time.Time
}

func NewAnalysisService(
	tracer trace.Tracer,
	provider SnapshotProvider,
	trades TradeSource,
	redisClient RedisClient,
	engine *analysis.Engine,
	snapshotTTL time.Duration,
) *AnalysisService {
	return &AnalysisService{
		tracer:      tracer,
		provider:    provider,
		trades:      trades,
		redis:       redisClient,
		engine:      engine,
		snapshotTTL: snapshotTTL,
		now:         time.Now,
	}
}

// Run rebuilds the portfolio from the ledger, gathers snapshots for every
// held or screenable ticker and produces a full recommendation report.
// A FetchError from the provider aborts the run: recommendations built on
// a partial universe are worse than none.
func (s *AnalysisService) Run(ctx context.Context, availableCash float64) (domain.Report, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.run")
	defer span.End()

	trades, err := s.trades.ListTrades(ctx)
	if err != nil {
		return domain.Report{}, err
	}

	now := s.now()
	positions := portfolio.BuildPositions(trades)
	sold := portfolio.SoldThisMonth(trades, now)

	snapshots, err := s.Snapshots(ctx, positions)
	if err != nil {
		return domain.Report{}, err
	}

	return s.engine.Run(analysis.Input{
		Positions:     positions,
		Snapshots:     snapshots,
		AvailableCash: availableCash,
		SoldThisMonth: sold,
		Now:           now,
	}), nil
}

// Positions rebuilds current holdings from the ledger without fetching
// any market data.
func (s *AnalysisService) Positions(ctx context.Context) ([]domain.Position, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.positions")
	defer span.End()

	trades, err := s.trades.ListTrades(ctx)
	if err != nil {
		return nil, err
	}
	return portfolio.BuildPositions(trades), nil
}

// Snapshots returns detail snapshots for every held ticker plus every
// liquid candidate from the screening universe. Results are cached in
// Redis so repeated runs do not hammer the scrape target.
func (s *AnalysisService) Snapshots(ctx context.Context, positions []domain.Position) ([]domain.MarketSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.snapshots")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getSnapshotCache(ctx)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	return s.fetchAndCache(ctx, positions)
}

// Refresh re-scrapes the snapshot universe and rewrites the cache,
// regardless of what is already cached. The background poller calls this
// so interactive runs stay warm.
func (s *AnalysisService) Refresh(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "analysis-service.refresh")
	defer span.End()

	trades, err := s.trades.ListTrades(ctx)
	if err != nil {
		return err
	}
	snapshots, err := s.fetchAndCache(ctx, portfolio.BuildPositions(trades))
	if err != nil {
		return err
	}
	log.Printf("Refreshed %d snapshots", len(snapshots))
	return nil
}

func (s *AnalysisService) fetchAndCache(ctx context.Context, positions []domain.Position) ([]domain.MarketSnapshot, error) {
	universe, err := s.provider.FetchUniverse(ctx)
	if err != nil {
		return nil, err
	}

	minVolume := s.engine.Params().MinAvgVolume2M
	held := make(map[string]bool, len(positions))
	for _, p := range positions {
		held[p.Ticker] = true
	}

	var tickers []string
	seen := make(map[string]bool)
	for _, snap := range universe {
		if !held[snap.Ticker] && snap.AvgVolume2M <= minVolume {
			continue
		}
		if !seen[snap.Ticker] {
			seen[snap.Ticker] = true
			tickers = append(tickers, snap.Ticker)
		}
	}
	for _, p := range positions {
		if !seen[p.Ticker] {
			seen[p.Ticker] = true
			tickers = append(tickers, p.Ticker)
		}
	}

	snapshots, err := s.provider.FetchSnapshots(ctx, tickers)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.setSnapshotCache(ctx, snapshots); err != nil {
			log.Printf("redis cache write error: %v", err)
		}
	}
	return snapshots, nil
}

func (s *AnalysisService) setSnapshotCache(ctx context.Context, snapshots []domain.MarketSnapshot) error {
	data, err := json.Marshal(snapshots)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, snapshotCacheKey, data, s.snapshotTTL).Err()
}

func (s *AnalysisService) getSnapshotCache(ctx context.Context) ([]domain.MarketSnapshot, error) {
	data, err := s.redis.Get(ctx, snapshotCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snapshots []domain.MarketSnapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}
