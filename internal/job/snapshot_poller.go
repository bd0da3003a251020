package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// SnapshotRefresher re-scrapes the fundamentals universe into the cache.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// SnapshotPoller keeps the snapshot cache warm so interactive analysis
// runs never wait on a full scrape. Fundamentals move slowly; the
// default interval is an hour.
type SnapshotPoller struct {
	tracer       trace.Tracer
	snapshots    SnapshotRefresher
	pollInterval time.Duration
}

func NewSnapshotPoller(tracer trace.Tracer, snapshots SnapshotRefresher, pollIntervalSecs int) *SnapshotPoller {
	return &SnapshotPoller{
		tracer:       tracer,
		snapshots:    snapshots,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start blocks until ctx is cancelled, refreshing on every tick.
func (p *SnapshotPoller) Start(ctx context.Context) {
	log.Println("Snapshot poller starting...")

	// Run immediately on start
	p.refresh(ctx)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot poller stopped")
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *SnapshotPoller) refresh(ctx context.Context) {
	ctx, span := p.tracer.Start(ctx, "snapshot-poller.refresh")
	defer span.End()

	if err := p.snapshots.Refresh(ctx); err != nil {
		span.RecordError(err)
		log.Printf("snapshot refresh error: %v", err)
	}
}
