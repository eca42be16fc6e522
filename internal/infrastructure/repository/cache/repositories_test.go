package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
	"github.com/riskibarqy/esports-hub/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/esports-hub/internal/platform/cache"
)

func TestEventRepository_ListLiveCachedUntilUpdate(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	base := memory.NewStore()
	base.Load(memory.DemoSeed(now))
	store := NewStore(base, basecache.NewStore(time.Minute))

	first, err := store.Events().ListLive(ctx)
	if err != nil || len(first) != 1 {
		t.Fatalf("list live: %v %+v", err, first)
	}

	// A write through the uncached store is invisible until invalidation.
	qualifier, _, _ := base.Events().GetByID(ctx, memory.EventIDOpenQualifier)
	qualifier.Status = event.StatusOngoing
	if err := base.Events().Update(ctx, qualifier); err != nil {
		t.Fatalf("update: %v", err)
	}
	stale, _ := store.Events().ListLive(ctx)
	if len(stale) != 1 {
		t.Fatalf("expected cached result, got %+v", stale)
	}

	if err := store.Events().Update(ctx, qualifier); err != nil {
		t.Fatalf("update through cache: %v", err)
	}
	fresh, _ := store.Events().ListLive(ctx)
	if len(fresh) != 2 {
		t.Fatalf("expected invalidated result with two events, got %+v", fresh)
	}
}

func TestTeamRepository_MissCachedUntilCommit(t *testing.T) {
	ctx := context.Background()
	base := memory.NewStore()
	store := NewStore(base, basecache.NewStore(time.Minute))

	if _, ok, _ := store.Teams().GetByID(ctx, "t-new"); ok {
		t.Fatalf("expected missing team")
	}

	err := store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.Teams().Create(ctx, team.Placeholder("t-new", "New Team"))
	})
	if err != nil {
		t.Fatalf("within tx: %v", err)
	}

	got, ok, err := store.Teams().GetByID(ctx, "t-new")
	if err != nil || !ok || got.Name != "New Team" {
		t.Fatalf("expected team after commit, got %+v %v %v", got, ok, err)
	}
}

func TestStore_WithinTxDropsEventLists(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	base := memory.NewStore()
	base.Load(memory.DemoSeed(now))
	store := NewStore(base, basecache.NewStore(time.Minute))

	if live, err := store.Events().ListLive(ctx); err != nil || len(live) != 1 {
		t.Fatalf("list live: %v %+v", err, live)
	}

	err := store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.Events().Create(ctx, event.Event{
			ID:        "event-new",
			Name:      "New Cup",
			Status:    event.StatusOngoing,
			Format:    event.FormatTournament,
			StartDate: &now,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		t.Fatalf("within tx: %v", err)
	}

	live, err := store.Events().ListLive(ctx)
	if err != nil || len(live) != 2 {
		t.Fatalf("expected committed event in live list, got %v %+v", err, live)
	}
}
