package memory

import (
	"context"

	"github.com/riskibarqy/esports-hub/internal/domain/playerstats"
)

type PlayerStatsRepository struct {
	a access
}

func (r *PlayerStatsRepository) ListByMatch(_ context.Context, matchID string) ([]playerstats.MatchStat, error) {
	var out []playerstats.MatchStat
	r.a.read(func(d *dataset) {
		out = append(out, d.stats[matchID]...)
	})
	return out, nil
}

func (r *PlayerStatsRepository) ReplaceForMatch(_ context.Context, matchID string, stats []playerstats.MatchStat) error {
	return r.a.write(func(d *dataset) error {
		if len(stats) == 0 {
			delete(d.stats, matchID)
			return nil
		}
		rows := make([]playerstats.MatchStat, 0, len(stats))
		for _, s := range stats {
			s.MatchID = matchID
			rows = append(rows, s)
		}
		d.stats[matchID] = rows
		return nil
	})
}
