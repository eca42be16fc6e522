package storage

import (
	"context"
	"errors"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/match"
	"github.com/riskibarqy/esports-hub/internal/domain/player"
	"github.com/riskibarqy/esports-hub/internal/domain/playerstats"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
	"github.com/riskibarqy/esports-hub/internal/domain/vote"
)

var (
	// ErrConflict reports a violated uniqueness rule such as a duplicate
	// external match id or a second featured live event.
	ErrConflict = errors.New("storage: conflict")
	// ErrUnavailable reports that the backing store cannot be reached.
	ErrUnavailable = errors.New("storage: unavailable")
)

// Repositories groups the repositories bound to one connection or
// transaction.
type Repositories interface {
	Matches() match.Repository
	Events() event.Repository
	Teams() team.Repository
	Players() player.Repository
	PlayerStats() playerstats.Repository
	Votes() vote.Repository
}

// Tx is an open transaction. Writes become visible to other readers only
// when the WithinTx callback returns nil.
type Tx interface {
	Repositories
	// Savepoint runs fn in a nested scope. When fn fails, its writes are
	// undone and the outer transaction stays usable.
	Savepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Ping(ctx context.Context) error
}
