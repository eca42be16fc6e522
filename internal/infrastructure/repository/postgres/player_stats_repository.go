package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/esports-hub/internal/domain/playerstats"
	qb "github.com/riskibarqy/esports-hub/internal/platform/querybuilder"
)

const playerMatchStatsTable = "player_match_stats"

type PlayerStatsRepository struct {
	db sqlx.ExtContext
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) ListByMatch(ctx context.Context, matchID string) ([]playerstats.MatchStat, error) {
	query, args, err := qb.Select(qb.Columns(playerStatTableModel{})...).
		From(playerMatchStatsTable).
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player stats query: %w", err)
	}

	var rows []playerStatTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}

	out := make([]playerstats.MatchStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerstats.MatchStat{
			MatchID:           row.MatchID,
			PlayerID:          row.PlayerID,
			TeamID:            row.TeamID.String,
			Hero:              row.Hero,
			HeroRole:          row.HeroRole,
			TimePlayedSeconds: row.TimePlayedSeconds,
			Eliminations:      row.Eliminations,
			Assists:           row.Assists,
			Deaths:            row.Deaths,
			DamageDealt:       row.DamageDealt,
			DamageTaken:       row.DamageTaken,
			HealingDone:       row.HealingDone,
			DamageBlocked:     row.DamageBlocked,
			Extra:             decodeJSONMap(row.Extra),
		})
	}
	return out, nil
}

func (r *PlayerStatsRepository) ReplaceForMatch(ctx context.Context, matchID string, stats []playerstats.MatchStat) error {
	query, args, err := qb.DeleteFrom(playerMatchStatsTable).Where(qb.Eq("match_public_id", matchID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete player stats: %w", err)
	}

	for _, s := range stats {
		query, args, err := qb.InsertModel(playerMatchStatsTable, playerStatTableModel{
			MatchID:           matchID,
			PlayerID:          s.PlayerID,
			TeamID:            nullableString(s.TeamID),
			Hero:              s.Hero,
			HeroRole:          s.HeroRole,
			TimePlayedSeconds: s.TimePlayedSeconds,
			Eliminations:      s.Eliminations,
			Assists:           s.Assists,
			Deaths:            s.Deaths,
			DamageDealt:       s.DamageDealt,
			DamageTaken:       s.DamageTaken,
			HealingDone:       s.HealingDone,
			DamageBlocked:     s.DamageBlocked,
			Extra:             encodeJSONMap(s.Extra),
		}, "")
		if err != nil {
			return fmt.Errorf("build insert player stat query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return writeError("insert player stat", err)
		}
	}
	return nil
}
