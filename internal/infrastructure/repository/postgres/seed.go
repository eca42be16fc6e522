package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo fixture set into an empty database.
func BootstrapSeed(ctx context.Context, s *Store, now time.Time) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := memory.DemoSeed(now)
	return s.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		for _, t := range seed.Teams {
			if err := tx.Teams().Create(ctx, t); err != nil {
				return fmt.Errorf("seed team %s: %w", t.ID, err)
			}
		}
		for _, e := range seed.Events {
			if err := tx.Events().Create(ctx, e); err != nil {
				return fmt.Errorf("seed event %s: %w", e.ID, err)
			}
		}
		for _, m := range seed.Matches {
			if err := tx.Matches().Create(ctx, m); err != nil {
				return fmt.Errorf("seed match %s: %w", m.ID, err)
			}
		}
		for _, mp := range seed.Maps {
			if err := tx.Matches().UpsertMap(ctx, mp); err != nil {
				return fmt.Errorf("seed map %s#%d: %w", mp.MatchID, mp.Number, err)
			}
		}
		return nil
	})
}
