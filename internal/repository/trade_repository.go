package repository

import (
	"context"

	"acionista/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createTradesTable = `
CREATE TABLE IF NOT EXISTS trades (
    id          BIGSERIAL   PRIMARY KEY,
    ticker      TEXT        NOT NULL,
    side        TEXT        NOT NULL,
    quantity    BIGINT      NOT NULL,
    gross       NUMERIC     NOT NULL,
    executed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_ticker_time
    ON trades (ticker, executed_at);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type TradeRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewTradeRepository(pool PgxPool, tracer trace.Tracer) *TradeRepository {
	return &TradeRepository{pool: pool, tracer: tracer}
}

func (r *TradeRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "trade-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createTradesTable)
	return err
}

func (r *TradeRepository) InsertTrades(ctx context.Context, trades []domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "trade-repo.insert-trades")
	defer span.End()

	batch := &pgx.Batch{}
	for _, t := range trades {
		batch.Queue(
			`INSERT INTO trades (ticker, side, quantity, gross, executed_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			t.Ticker, string(t.Side), t.Quantity, t.Gross, t.Date,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range trades {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListTrades returns the whole ledger, oldest first, the order position
// rebuilding expects.
func (r *TradeRepository) ListTrades(ctx context.Context) ([]domain.Trade, error) {
	_, span := r.tracer.Start(ctx, "trade-repo.list-trades")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT ticker, side, quantity, gross, executed_at
		 FROM trades
		 ORDER BY executed_at ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var side string
		if err := rows.Scan(&t.Ticker, &side, &t.Quantity, &t.Gross, &t.Date); err != nil {
			return nil, err
		}
		t.Side = domain.TradeSide(side)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}
