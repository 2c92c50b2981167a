package scheduler

import (
	"context"
	"time"

	"arxivdigest/internal/ports"
)

// IntervalScheduler runs the job immediately and then on a fixed ticker.
// The design assumes at most one pipeline run active at a time, which a
// single ticker goroutine guarantees within one process.
type IntervalScheduler struct {
	interval time.Duration
	stop     chan struct{}
	stopped  bool
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler parses the interval string; anything unparsable or
// non-positive falls back to 24h.
func NewIntervalScheduler(interval string) *IntervalScheduler {
	parsed, err := time.ParseDuration(interval)
	if err != nil || parsed <= 0 {
		parsed = 24 * time.Hour
	}
	return &IntervalScheduler{interval: parsed}
}

// Start begins ticking. Runs execute on the scheduler goroutine so two
// runs can never overlap.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine. The channel stays non-nil after the
// close so the goroutine always observes it.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	if s.stop == nil || s.stopped {
		return nil
	}
	s.stopped = true
	close(s.stop)
	return nil
}
