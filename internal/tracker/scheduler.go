package tracker

import (
	"context"
	"time"
)

// Scheduler calls a function once per period until its context ends.
// Calls never overlap: the next wait starts only after the previous call has
// returned. There is no catch-up; after a stall the next call simply sees the
// later time.
type Scheduler struct {
	Period time.Duration
	Clock  Clock
}

func NewScheduler(period time.Duration, clock Clock) *Scheduler {
	if period <= 0 {
		period = time.Second
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{Period: period, Clock: clock}
}

// Run blocks, invoking fn with the current time after every period.
func (s *Scheduler) Run(ctx context.Context, fn func(now time.Time)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.Clock.After(s.Period):
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fn(s.Clock.Now())
	}
}

// RunRegistry ticks a registry once per period.
func (s *Scheduler) RunRegistry(ctx context.Context, r *Registry, after func(now time.Time)) error {
	return s.Run(ctx, func(now time.Time) {
		r.Tick(now)
		if after != nil {
			after(now)
		}
	})
}
