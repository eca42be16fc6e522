package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/match"
	"github.com/riskibarqy/esports-hub/internal/domain/player"
	"github.com/riskibarqy/esports-hub/internal/domain/playerstats"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
	"github.com/riskibarqy/esports-hub/internal/domain/vote"
	"github.com/riskibarqy/esports-hub/internal/platform/resilience"
)

// Store implements storage.Store on Postgres. Opening transactions and
// pinging go through a circuit breaker so an unreachable database fails fast.
type Store struct {
	db      *sqlx.DB
	breaker *resilience.CircuitBreaker
}

func NewStore(db *sqlx.DB, breaker *resilience.CircuitBreaker) *Store {
	return &Store{db: db, breaker: breaker}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Matches() match.Repository { return &MatchRepository{db: s.db} }
func (s *Store) Events() event.Repository { return &EventRepository{db: s.db} }
func (s *Store) Teams() team.Repository { return &TeamRepository{db: s.db} }
func (s *Store) Players() player.Repository { return &PlayerRepository{db: s.db} }
func (s *Store) PlayerStats() playerstats.Repository { return &PlayerStatsRepository{db: s.db} }
func (s *Store) Votes() vote.Repository { return &VoteRepository{db: s.db} }

func (s *Store) Ping(ctx context.Context) error {
	err := s.breaker.Execute(func() error {
		return s.db.PingContext(ctx)
	}, isInfraFailure)
	if err != nil {
		return fmt.Errorf("%w: ping database: %v", storage.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	var tx *sqlx.Tx
	err := s.breaker.Execute(func() error {
		var beginErr error
		tx, beginErr = s.db.BeginTxx(ctx, nil)
		return beginErr
	}, isInfraFailure)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", storage.ErrUnavailable, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &txStore{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return writeError("commit transaction", err)
	}
	return nil
}

// isInfraFailure keeps caller cancellations from tripping the breaker.
func isInfraFailure(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}

type txStore struct {
	tx *sqlx.Tx
}

func (t *txStore) Matches() match.Repository { return &MatchRepository{db: t.tx} }
func (t *txStore) Events() event.Repository { return &EventRepository{db: t.tx} }
func (t *txStore) Teams() team.Repository { return &TeamRepository{db: t.tx} }
func (t *txStore) Players() player.Repository { return &PlayerRepository{db: t.tx} }
func (t *txStore) PlayerStats() playerstats.Repository { return &PlayerStatsRepository{db: t.tx} }
func (t *txStore) Votes() vote.Repository { return &VoteRepository{db: t.tx} }

func (t *txStore) Savepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	sp := savepointName(name)
	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return fmt.Errorf("create savepoint %s: %w", sp, err)
	}

	if err := fn(ctx); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+sp); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback to savepoint %s: %w", sp, rbErr))
		}
		return err
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+sp); err != nil {
		return fmt.Errorf("release savepoint %s: %w", sp, err)
	}
	return nil
}

// savepointName turns an arbitrary label into a safe SQL identifier.
func savepointName(name string) string {
	var b strings.Builder
	b.WriteString("sp_")
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
