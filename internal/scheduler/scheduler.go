package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Runner is one unit of schedulable work (the full pipeline pass).
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler owns the watch loop: one immediate pipeline pass, then one per
// interval tick.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

// New creates a scheduler that runs the pipeline at the given interval.
func New(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the watch loop. A failed pass is logged and the loop keeps
// ticking. Returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting watch loop", "interval", s.interval.String())

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down watch loop")
			return nil
		case <-time.After(s.interval):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.runner.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("pipeline pass failed", "error", err)
	}
}
