package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"acionista/internal/domain"
	"acionista/internal/provider"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const dividendCacheTTL = 12 * time.Hour

// DividendProvider yields payout history and a quote for one ticker.
type DividendProvider interface {
	FetchProventos(ctx context.Context, ticker string) ([]domain.DividendEvent, error)
	FetchDetail(ctx context.Context, ticker string) (domain.MarketSnapshot, error)
}

type DividendService struct {
	tracer   trace.Tracer
	provider DividendProvider
	redis    RedisClient
	now      func() time.Time
}

func NewDividendService(tracer trace.Tracer, p DividendProvider, redisClient RedisClient) *DividendService {
	return &DividendService{
		tracer:   tracer,
		provider: p,
		redis:    redisClient,
		now:      time.Now,
	}
}

// Events returns the raw payout history for a ticker, newest first.
func (s *DividendService) Events(ctx context.Context, ticker string) ([]domain.DividendEvent, error) {
	ctx, span := s.tracer.Start(ctx, "dividend-service.events")
	defer span.End()

	return s.provider.FetchProventos(ctx, ticker)
}

// History summarizes a ticker's payout record: distinct paying years,
// five-year consistency and the average yield over the last three years.
func (s *DividendService) History(ctx context.Context, ticker string) (domain.DividendHistory, error) {
	ctx, span := s.tracer.Start(ctx, "dividend-service.history")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getHistoryCache(ctx, ticker)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached != nil {
			return *cached, nil
		}
	}

	events, err := s.provider.FetchProventos(ctx, ticker)
	if err != nil {
		return domain.DividendHistory{}, err
	}

	detail, err := s.provider.FetchDetail(ctx, ticker)
	if err != nil {
		return domain.DividendHistory{}, err
	}

	history := provider.BuildDividendHistory(ticker, events, detail.Quote, s.now())

	if s.redis != nil {
		if err := s.setHistoryCache(ctx, history); err != nil {
			log.Printf("redis cache write error: %v", err)
		}
	}
	return history, nil
}

func (s *DividendService) setHistoryCache(ctx context.Context, h domain.DividendHistory) error {
	data, err := json.Marshal(h)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, "dividends:"+h.Ticker, data, dividendCacheTTL).Err()
}

func (s *DividendService) getHistoryCache(ctx context.Context, ticker string) (*domain.DividendHistory, error) {
	data, err := s.redis.Get(ctx, "dividends:"+ticker).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var h domain.DividendHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
