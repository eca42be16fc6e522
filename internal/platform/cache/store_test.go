package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "events:live", []string{"e1"})
	if _, ok := store.Get(context.Background(), "events:live"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "events:live"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_DeleteAndPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	store.Set(ctx, "events:live", 1)
	store.Set(ctx, "events:featured", 2)
	store.Set(ctx, "team:id:a", 3)
	store.Set(ctx, "team:id:b", 4)

	store.Delete(ctx, "events:live", "events:featured")
	store.DeletePrefix(ctx, "team:")

	if got := store.Len(); got != 0 {
		t.Fatalf("expected empty store, got %d entries", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

func TestStore_GetOrLoad_DropsLoadInvalidatedMidFlight(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any, 1)
	go func() {
		v, _ := store.GetOrLoad(ctx, "events:live", func(context.Context) (any, error) {
			close(started)
			<-release
			return "before-commit", nil
		})
		done <- v
	}()

	<-started
	store.Delete(ctx, "events:live")
	close(release)

	if got := <-done; got != "before-commit" {
		t.Fatalf("caller should still receive the loaded value, got %v", got)
	}
	if v, ok := store.Get(ctx, "events:live"); ok {
		t.Fatalf("invalidated load must not be cached, got %v", v)
	}

	v, err := store.GetOrLoad(ctx, "events:live", func(context.Context) (any, error) {
		return "after-commit", nil
	})
	if err != nil || v != "after-commit" {
		t.Fatalf("expected fresh load, got %v %v", v, err)
	}
	if cached, ok := store.Get(ctx, "events:live"); !ok || cached != "after-commit" {
		t.Fatalf("expected fresh value cached, got %v %v", cached, ok)
	}
}
