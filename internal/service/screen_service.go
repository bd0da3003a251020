package service

import (
	"context"

	"acionista/internal/domain"
	"acionista/internal/screener"

	"go.opentelemetry.io/otel/trace"
)

// ScreenService runs the screening variants over the full snapshot
// universe. It reuses the analysis service's cached snapshots so a web
// request never triggers a second scrape.
type ScreenService struct {
	tracer    trace.Tracer
	snapshots *AnalysisService
	dividends *DividendService
}

func NewScreenService(tracer trace.Tracer, snapshots *AnalysisService, dividends *DividendService) *ScreenService {
	return &ScreenService{tracer: tracer, snapshots: snapshots, dividends: dividends}
}

func (s *ScreenService) ValueScreen(ctx context.Context) ([]domain.ScreenRow, error) {
	ctx, span := s.tracer.Start(ctx, "screen-service.value")
	defer span.End()

	snapshots, err := s.snapshots.Snapshots(ctx, nil)
	if err != nil {
		return nil, err
	}
	rows := screener.ValueScreen(snapshots, screener.DefaultValueParams())
	return screener.MarkOutliers(rows), nil
}

func (s *ScreenService) DividendScreen(ctx context.Context) ([]domain.ScreenRow, error) {
	ctx, span := s.tracer.Start(ctx, "screen-service.dividend")
	defer span.End()

	snapshots, err := s.snapshots.Snapshots(ctx, nil)
	if err != nil {
		return nil, err
	}
	rows := screener.DividendScreen(snapshots, screener.DefaultDividendParams())
	return screener.MarkOutliers(rows), nil
}

// ConsistencyScreen walks the dividend-screen survivors through their
// payout history. It is the slowest screen: one proventos fetch per
// survivor, which is why the dividend service caches per ticker.
func (s *ScreenService) ConsistencyScreen(ctx context.Context) ([]screener.ConsistencyRow, error) {
	ctx, span := s.tracer.Start(ctx, "screen-service.consistency")
	defer span.End()

	snapshots, err := s.snapshots.Snapshots(ctx, nil)
	if err != nil {
		return nil, err
	}
	survivors := screener.DividendScreen(snapshots, screener.DefaultDividendParams())

	var histories []domain.DividendHistory
	for _, row := range survivors {
		h, err := s.dividends.History(ctx, row.Ticker)
		if err != nil {
			return nil, err
		}
		histories = append(histories, h)
	}
	return screener.ConsistencyScreen(histories, snapshots), nil
}
