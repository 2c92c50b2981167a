package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestIntervalSchedulerFallsBackOnBadInterval(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler("not-a-duration")
	if s.interval != 24*time.Hour {
		t.Fatalf("expected 24h fallback, got %v", s.interval)
	}

	s = NewIntervalScheduler("-5m")
	if s.interval != 24*time.Hour {
		t.Fatalf("expected 24h fallback for negative interval, got %v", s.interval)
	}
}

func TestIntervalSchedulerRunsImmediately(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler("1h")
	ran := make(chan time.Time, 1)

	if err := s.Start(context.Background(), func(now time.Time) {
		select {
		case ran <- now:
		default:
		}
	}); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatalf("job did not run immediately on start")
	}
}

func TestIntervalSchedulerStopKeepsChannelObservable(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler("10ms")
	var calls atomic.Int64

	if err := s.Start(context.Background(), func(time.Time) {
		calls.Add(1)
	}); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	// The goroutine must still see the closed channel after Stop returns.
	if s.stop == nil {
		t.Fatalf("stop channel nilled out from under the ticker goroutine")
	}
	select {
	case <-s.stop:
	default:
		t.Fatalf("stop channel not closed")
	}

	// A second Stop is a no-op, not a double close.
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}

	// Allow any tick already in flight at Stop time to finish.
	time.Sleep(20 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != settled {
		t.Fatalf("job still running after Stop: %d -> %d calls", settled, got)
	}
}
