package cache

import (
	"context"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
	basecache "github.com/riskibarqy/esports-hub/internal/platform/cache"
)

const teamKeyPrefix = "team:"

// Store serves hot reads from an in-process cache. Transactions and writes
// go straight to the wrapped store; callers invalidate the derived keys.
type Store struct {
	storage.Store
	cache *basecache.Store
}

func NewStore(next storage.Store, cache *basecache.Store) *Store {
	return &Store{Store: next, cache: cache}
}

func (s *Store) Events() event.Repository {
	return &EventRepository{Repository: s.Store.Events(), cache: s.cache}
}

func (s *Store) Teams() team.Repository {
	return &TeamRepository{Repository: s.Store.Teams(), cache: s.cache}
}

// WithinTx drops cached team lookups and event lists after a commit.
// Transactional writers such as ingestion create teams that were cached as
// missing and events that belong in the live lists.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	if err := s.Store.WithinTx(ctx, fn); err != nil {
		return err
	}
	s.cache.DeletePrefix(ctx, teamKeyPrefix)
	s.cache.Delete(ctx, event.CacheKeyLive, event.CacheKeyFeatured, event.CacheKeyHomepage)
	return nil
}

type EventRepository struct {
	event.Repository
	cache *basecache.Store
}

func (r *EventRepository) ListLive(ctx context.Context) ([]event.Event, error) {
	return r.list(ctx, event.CacheKeyLive, r.Repository.ListLive)
}

func (r *EventRepository) ListFeaturedLive(ctx context.Context) ([]event.Event, error) {
	return r.list(ctx, event.CacheKeyFeatured, r.Repository.ListFeaturedLive)
}

func (r *EventRepository) Update(ctx context.Context, e event.Event) error {
	if err := r.Repository.Update(ctx, e); err != nil {
		return err
	}
	r.cache.Delete(ctx, event.CacheKeyLive, event.CacheKeyFeatured, event.CacheKeyHomepage)
	return nil
}

func (r *EventRepository) list(ctx context.Context, key string, load func(context.Context) ([]event.Event, error)) ([]event.Event, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]event.Event(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]event.Event)
	return append([]event.Event(nil), items...), nil
}

type TeamRepository struct {
	team.Repository
	cache *basecache.Store
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	key := teamKeyPrefix + "id:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.Repository.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) error {
	if err := r.Repository.Create(ctx, t); err != nil {
		return err
	}
	r.cache.Delete(ctx, teamKeyPrefix+"id:"+t.ID)
	return nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}
