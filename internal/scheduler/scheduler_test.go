package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countingRunner struct {
	runs atomic.Int32
	err  error
}

func (r *countingRunner) Run(_ context.Context) error {
	r.runs.Add(1)
	return r.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRun_ImmediatePassThenTicks(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := runner.runs.Load()
	if got < 2 {
		t.Errorf("runs = %d, want the immediate pass plus at least one tick", got)
	}
}

func TestRun_FailedPassKeepsTicking(t *testing.T) {
	runner := &countingRunner{err: errors.New("site down")}
	s := New(runner, 15*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := runner.runs.Load(); got < 2 {
		t.Errorf("runs = %d, want loop to survive pass failures", got)
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := runner.runs.Load(); got != 0 {
		t.Errorf("runs = %d, want 0 when already cancelled", got)
	}
}
