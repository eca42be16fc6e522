package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingPromoter struct {
	calls atomic.Int32
	err   error
}

func (p *countingPromoter) AutoPromote(context.Context, time.Time) (AutoPromoteResult, error) {
	p.calls.Add(1)
	return AutoPromoteResult{Started: 1}, p.err
}

func TestEventScheduler_RunsUntilCancelled(t *testing.T) {
	t.Parallel()

	promoter := &countingPromoter{err: errors.New("db down")}
	scheduler := NewEventScheduler(promoter, 5*time.Millisecond, testLogger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for promoter.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected repeated runs, got %d", promoter.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not stop after cancel")
	}
}

func TestNewEventScheduler_DefaultInterval(t *testing.T) {
	t.Parallel()

	s := NewEventScheduler(&countingPromoter{}, 0, nil)
	if s.interval != defaultAutoPromoteInterval {
		t.Fatalf("expected default interval, got %s", s.interval)
	}
}
