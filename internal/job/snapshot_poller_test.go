package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type stubRefresher struct {
	calls int32
	err   error
}

func (s *stubRefresher) Refresh(ctx context.Context) error {
	atomic.AddInt32(&s.calls, 1)
	return s.err
}

func TestNewSnapshotPollerInterval(t *testing.T) {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	poller := NewSnapshotPoller(tracer, &stubRefresher{}, 2)
	if poller.pollInterval != 2*time.Second {
		t.Fatalf("expected 2s interval, got %v", poller.pollInterval)
	}
}

func TestSnapshotPollerStart(t *testing.T) {
	t.Parallel()

	tracer := trace.NewNoopTracerProvider().Tracer("test")
	stub := &stubRefresher{}
	poller := NewSnapshotPoller(tracer, stub, 1)

	ctx, cancel := context.WithCancel(context.Background())
	go poller.Start(ctx)

	eventually(t, func() bool { return atomic.LoadInt32(&stub.calls) > 0 })
	cancel()
}

func TestSnapshotPollerSurvivesErrors(t *testing.T) {
	t.Parallel()

	tracer := trace.NewNoopTracerProvider().Tracer("test")
	stub := &stubRefresher{err: errors.New("scrape failed")}
	poller := NewSnapshotPoller(tracer, stub, 1)

	ctx, cancel := context.WithCancel(context.Background())
	go poller.Start(ctx)

	// An error on refresh must not kill the loop.
	eventually(t, func() bool { return atomic.LoadInt32(&stub.calls) > 0 })
	cancel()
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}
