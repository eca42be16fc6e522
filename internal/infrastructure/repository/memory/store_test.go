package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/match"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/domain/vote"
)

func TestWithinTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.Load(DemoSeed(time.Now()))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		m, _, _ := tx.Matches().GetByID(ctx, "match-sen-fnc")
		m.Team1Score = 1
		if err := tx.Matches().Update(ctx, m); err != nil {
			return err
		}

		inTx, _, _ := tx.Matches().GetByID(ctx, "match-sen-fnc")
		if inTx.Team1Score != 1 {
			t.Fatalf("expected write visible inside tx")
		}
		outside, _, _ := store.Matches().GetByID(ctx, "match-sen-fnc")
		if outside.Team1Score != 0 {
			t.Fatalf("uncommitted write leaked: %+v", outside)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	after, _, _ := store.Matches().GetByID(ctx, "match-sen-fnc")
	if after.Team1Score != 0 {
		t.Fatalf("expected rollback, got %+v", after)
	}
}

func TestSavepoint_UndoesOnlyNestedWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.Load(DemoSeed(time.Now()))

	err := store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.Votes().Upsert(ctx, vote.Vote{UserID: "u1", Target: vote.Target{Kind: vote.KindNews, ID: "n1"}, Type: vote.TypeUpvote}); err != nil {
			return err
		}
		spErr := tx.Savepoint(ctx, "record_1", func(ctx context.Context) error {
			if err := tx.Votes().Upsert(ctx, vote.Vote{UserID: "u2", Target: vote.Target{Kind: vote.KindNews, ID: "n1"}, Type: vote.TypeUpvote}); err != nil {
				return err
			}
			return errors.New("record failed")
		})
		if spErr == nil {
			t.Fatalf("expected savepoint error")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("within tx: %v", err)
	}

	counts, _ := store.Votes().Counts(ctx, vote.Target{Kind: vote.KindNews, ID: "n1"})
	if counts.Upvotes != 1 {
		t.Fatalf("expected only the outer vote to survive, got %+v", counts)
	}
}

func TestEventRepository_SoleFeaturedLive(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewStore()
	store.Load(DemoSeed(now))

	err := store.Events().Create(ctx, event.Event{ID: "evt-other", Name: "Other", Status: event.StatusOngoing, Featured: true, StartDate: &now})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict for second featured live event, got %v", err)
	}

	live, err := store.Events().ListLive(ctx)
	if err != nil {
		t.Fatalf("list live: %v", err)
	}
	if len(live) != 1 || live[0].ID != EventIDChampionship {
		t.Fatalf("unexpected live events: %+v", live)
	}
}

func TestEventRepository_DueLists(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewStore()
	store.Load(DemoSeed(now))

	due, err := store.Events().ListDueForStart(ctx, now.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 || due[0].ID != EventIDOpenQualifier {
		t.Fatalf("unexpected due events: %+v", due)
	}

	done, err := store.Events().ListDueForCompletion(ctx, now.Add(96*time.Hour))
	if err != nil {
		t.Fatalf("list due for completion: %v", err)
	}
	if len(done) != 1 || done[0].ID != EventIDChampionship {
		t.Fatalf("unexpected completion list: %+v", done)
	}
}

func TestMatchRepository_MapsAndExternalIDs(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.Load(DemoSeed(time.Now()))

	maps, err := store.Matches().ListMaps(ctx, "match-sen-fnc")
	if err != nil {
		t.Fatalf("list maps: %v", err)
	}
	if len(maps) != 3 || maps[0].Number != 1 || maps[2].Number != 3 {
		t.Fatalf("expected maps ordered by number, got %+v", maps)
	}

	err = store.Matches().ReplaceMaps(ctx, "match-sen-fnc", []match.Map{{Number: 1}, {Number: 1}})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected duplicate map conflict, got %v", err)
	}

	if err := store.Matches().Create(ctx, match.Match{ID: "m-ext-1", ExternalID: "feed-1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Matches().Create(ctx, match.Match{ID: "m-ext-2", ExternalID: "feed-1"}); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected external id conflict, got %v", err)
	}
	got, ok, _ := store.Matches().GetByExternalID(ctx, "feed-1")
	if !ok || got.ID != "m-ext-1" {
		t.Fatalf("unexpected lookup result: %+v %v", got, ok)
	}
}

func TestVoteRepository_Counts(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	target := vote.Target{Kind: vote.KindThread, ID: "42"}
	other := vote.Target{Kind: vote.KindPost, ID: "42"}

	_ = store.Votes().Upsert(ctx, vote.Vote{UserID: "a", Target: target, Type: vote.TypeUpvote})
	_ = store.Votes().Upsert(ctx, vote.Vote{UserID: "b", Target: target, Type: vote.TypeDownvote})
	_ = store.Votes().Upsert(ctx, vote.Vote{UserID: "c", Target: target, Type: vote.TypeUpvote})
	_ = store.Votes().Upsert(ctx, vote.Vote{UserID: "a", Target: other, Type: vote.TypeUpvote})

	counts, err := store.Votes().Counts(ctx, target)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Upvotes != 2 || counts.Downvotes != 1 || counts.Score() != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	if err := store.Votes().Delete(ctx, "a", target); err != nil {
		t.Fatalf("delete: %v", err)
	}
	counts, _ = store.Votes().Counts(ctx, target)
	if counts.Upvotes != 1 {
		t.Fatalf("expected one upvote after delete, got %+v", counts)
	}
}
