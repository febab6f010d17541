// Package core
package core

import (
	"context"
	"time"

	"horizonx-gauge/internal/logger"
)

// Scheduler calls sample every interval and hands successful results to
// sink. Each sample gets the longer of one interval and the timeout set
// with SetTimeout to complete.
type Scheduler[T any] struct {
	interval time.Duration
	timeout  time.Duration
	log      logger.Logger
	sample   func(context.Context) (T, error)
	sink     func(T)
}

func NewScheduler[T any](interval time.Duration, log logger.Logger, sample func(context.Context) (T, error), sink func(T)) *Scheduler[T] {
	return &Scheduler[T]{
		interval: interval,
		log:      log,
		sample:   sample,
		sink:     sink,
	}
}

// SetTimeout lets a sample run past one interval, so slow upstreams are cut
// off by their own timeout rather than by the tick.
func (s *Scheduler[T]) SetTimeout(d time.Duration) {
	s.timeout = d
}

func (s *Scheduler[T]) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler[T]) tick(ctx context.Context) {
	if s.sample == nil || s.sink == nil {
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, max(s.interval, s.timeout))
	defer cancel()

	v, err := s.sample(timeoutCtx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error("scheduler: sample failed", "error", err)
		}
		return
	}

	s.sink(v)
}
