package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenMaxReq: 1})

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteIgnoresNonFailures(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: true, FailureThreshold: 1})
	errValidation := errors.New("validation")

	for i := 0; i < 3; i++ {
		err := b.Execute(func() error { return errValidation }, func(err error) bool { return !errors.Is(err, errValidation) })
		if !errors.Is(err, errValidation) {
			t.Fatalf("expected validation error passthrough, got %v", err)
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected breaker to stay closed, got %s", state)
	}

	errDown := errors.New("connection refused")
	_ = b.Execute(func() error { return errDown }, nil)
	if err := b.Execute(func() error { return nil }, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected fail fast after dependency failure, got %v", err)
	}
}

func TestCircuitBreaker_DisabledPassesThrough(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	for i := 0; i < 3; i++ {
		_ = b.Execute(func() error { return errors.New("down") }, nil)
	}
	if err := b.Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("disabled breaker must not block: %v", err)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true, FailureThreshold: 0, HalfOpenMaxReq: -1})
	want := DefaultCircuitBreakerConfig()
	if got != want {
		t.Fatalf("expected defaults %+v, got %+v", want, got)
	}

	custom := CircuitBreakerConfig{Enabled: false, FailureThreshold: 3, OpenTimeout: time.Second, HalfOpenMaxReq: 4}
	if got := NormalizeCircuitBreakerConfig(custom); got != custom {
		t.Fatalf("expected explicit values kept, got %+v", got)
	}
}
