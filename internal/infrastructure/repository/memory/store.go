package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/match"
	"github.com/riskibarqy/esports-hub/internal/domain/player"
	"github.com/riskibarqy/esports-hub/internal/domain/playerstats"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
	"github.com/riskibarqy/esports-hub/internal/domain/vote"
)

type voteKey struct {
	userID string
	target vote.Target
}

type dataset struct {
	matches map[string]match.Match
	maps    map[string]map[int]match.Map
	events  map[string]event.Event
	teams   map[string]team.Team
	players map[string]player.Player
	stats   map[string][]playerstats.MatchStat
	votes   map[voteKey]vote.Vote
}

func newDataset() *dataset {
	return &dataset{
		matches: make(map[string]match.Match),
		maps:    make(map[string]map[int]match.Map),
		events:  make(map[string]event.Event),
		teams:   make(map[string]team.Team),
		players: make(map[string]player.Player),
		stats:   make(map[string][]playerstats.MatchStat),
		votes:   make(map[voteKey]vote.Vote),
	}
}

func (d *dataset) clone() *dataset {
	out := &dataset{
		matches: make(map[string]match.Match, len(d.matches)),
		maps:    make(map[string]map[int]match.Map, len(d.maps)),
		events:  make(map[string]event.Event, len(d.events)),
		teams:   make(map[string]team.Team, len(d.teams)),
		players: make(map[string]player.Player, len(d.players)),
		stats:   make(map[string][]playerstats.MatchStat, len(d.stats)),
		votes:   make(map[voteKey]vote.Vote, len(d.votes)),
	}
	for k, v := range d.matches {
		out.matches[k] = v
	}
	for k, byNumber := range d.maps {
		cp := make(map[int]match.Map, len(byNumber))
		for n, mp := range byNumber {
			cp[n] = mp
		}
		out.maps[k] = cp
	}
	for k, v := range d.events {
		out.events[k] = v
	}
	for k, v := range d.teams {
		out.teams[k] = v
	}
	for k, v := range d.players {
		out.players[k] = v
	}
	for k, v := range d.stats {
		out.stats[k] = append([]playerstats.MatchStat(nil), v...)
	}
	for k, v := range d.votes {
		out.votes[k] = v
	}
	return out
}

// access hides whether repositories read committed state or a transaction's
// private copy.
type access interface {
	read(fn func(d *dataset))
	write(fn func(d *dataset) error) error
}

// Store keeps every table in process memory. Transactions work on a private
// copy and swap it in on commit; writers are serialized.
type Store struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	data    *dataset
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) read(fn func(d *dataset)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(d *dataset) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.snapshot()
	if err := fn(next); err != nil {
		return err
	}
	s.commit(next)
	return nil
}

func (s *Store) snapshot() *dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.clone()
}

func (s *Store) commit(next *dataset) {
	s.mu.Lock()
	s.data = next
	s.mu.Unlock()
}

func (s *Store) Matches() match.Repository { return &MatchRepository{a: s} }
func (s *Store) Events() event.Repository { return &EventRepository{a: s} }
func (s *Store) Teams() team.Repository { return &TeamRepository{a: s} }
func (s *Store) Players() player.Repository { return &PlayerRepository{a: s} }
func (s *Store) PlayerStats() playerstats.Repository { return &PlayerStatsRepository{a: s} }
func (s *Store) Votes() vote.Repository { return &VoteRepository{a: s} }
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx := &txStore{data: s.snapshot()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.commit(tx.data)
	return nil
}

type txStore struct {
	mu   sync.Mutex
	data *dataset
}

func (t *txStore) read(fn func(d *dataset)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.data)
}

func (t *txStore) write(fn func(d *dataset) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.data)
}

func (t *txStore) Matches() match.Repository { return &MatchRepository{a: t} }
func (t *txStore) Events() event.Repository { return &EventRepository{a: t} }
func (t *txStore) Teams() team.Repository { return &TeamRepository{a: t} }
func (t *txStore) Players() player.Repository { return &PlayerRepository{a: t} }
func (t *txStore) PlayerStats() playerstats.Repository { return &PlayerStatsRepository{a: t} }
func (t *txStore) Votes() vote.Repository { return &VoteRepository{a: t} }

func (t *txStore) Savepoint(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	saved := t.data.clone()
	t.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.mu.Lock()
		t.data = saved
		t.mu.Unlock()
		return err
	}
	return nil
}
