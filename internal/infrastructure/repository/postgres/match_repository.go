package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/esports-hub/internal/domain/match"
	qb "github.com/riskibarqy/esports-hub/internal/platform/querybuilder"
)

const (
	matchesTable   = "matches"
	matchMapsTable = "match_maps"
)

type MatchRepository struct {
	db sqlx.ExtContext
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	return r.getOne(ctx, "get match by id", qb.Eq("public_id", matchID))
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalID string) (match.Match, bool, error) {
	if externalID == "" {
		return match.Match{}, false, nil
	}
	return r.getOne(ctx, "get match by external id", qb.Eq("external_id", externalID))
}

func (r *MatchRepository) getOne(ctx context.Context, op string, cond qb.Condition) (match.Match, bool, error) {
	query, args, err := qb.Select(qb.Columns(matchTableModel{})...).
		From(matchesTable).
		Where(cond, qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListByIngestionRequest(ctx context.Context, requestID string) ([]match.Match, error) {
	query, args, err := qb.Select(qb.Columns(matchTableModel{})...).
		From(matchesTable).
		Where(qb.Eq("ingestion_request_id", requestID), qb.IsNull("deleted_at")).
		OrderBy("created_at ASC", "public_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by request query: %w", err)
	}

	var rows []matchTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by request: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	query, args, err := qb.InsertModel(matchesTable, matchToRow(m), "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return writeError("insert match", err)
	}
	return nil
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match) error {
	row := matchToRow(m)
	query, args, err := qb.Update(matchesTable).
		Set("event_public_id", row.EventID).
		Set("format", row.Format).
		Set("status", row.Status).
		Set("team1_score", row.Team1Score).
		Set("team2_score", row.Team2Score).
		Set("winner_public_id", row.WinnerID).
		Set("current_map", row.CurrentMap).
		Set("current_map_status", row.CurrentMapStatus).
		Set("scheduled_at", row.ScheduledAt).
		Set("started_at", row.StartedAt).
		Set("completed_at", row.CompletedAt).
		Set("updated_at", row.UpdatedAt).
		Where(qb.Eq("public_id", row.PublicID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return writeError("update match", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update match %s: no such row", m.ID)
	}
	return nil
}

func (r *MatchRepository) ListMaps(ctx context.Context, matchID string) ([]match.Map, error) {
	query, args, err := qb.Select(qb.Columns(mapTableModel{})...).
		From(matchMapsTable).
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("map_number ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list maps query: %w", err)
	}

	var rows []mapTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}

	out := make([]match.Map, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) UpsertMap(ctx context.Context, mp match.Map) error {
	query, args, err := qb.UpsertModel(matchMapsTable, mapToRow(mp), "match_public_id", "map_number")
	if err != nil {
		return fmt.Errorf("build upsert map query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return writeError("upsert map", err)
	}
	return nil
}

func (r *MatchRepository) ReplaceMaps(ctx context.Context, matchID string, maps []match.Map) error {
	query, args, err := qb.DeleteFrom(matchMapsTable).Where(qb.Eq("match_public_id", matchID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete maps query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete maps: %w", err)
	}

	if len(maps) == 0 {
		return nil
	}
	insert := qb.InsertInto(matchMapsTable).Columns(qb.Columns(mapTableModel{})...)
	for _, mp := range maps {
		mp.MatchID = matchID
		row := mapToRow(mp)
		insert.Values(
			row.MatchID, row.Number, row.Name, row.GameMode,
			row.Team1Score, row.Team2Score, row.Team1Rounds, row.Team2Rounds,
			row.Status, row.WinnerID, row.StartedAt, row.EndedAt,
			row.DurationSeconds, row.CreatedAt, row.UpdatedAt,
		)
	}
	query, args, err = insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert maps query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return writeError("insert maps", err)
	}
	return nil
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:                 row.PublicID,
		ExternalID:         row.ExternalID.String,
		EventID:            row.EventID.String,
		Team1ID:            row.Team1ID,
		Team2ID:            row.Team2ID,
		Format:             row.Format,
		Status:             row.Status,
		Team1Score:         row.Team1Score,
		Team2Score:         row.Team2Score,
		WinnerID:           row.WinnerID.String,
		CurrentMap:         row.CurrentMap,
		CurrentMapStatus:   row.CurrentMapStatus,
		IngestionRequestID: row.IngestionRequestID.String,
		ScheduledAt:        row.ScheduledAt,
		StartedAt:          row.StartedAt,
		CompletedAt:        row.CompletedAt,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func matchToRow(m match.Match) matchTableModel {
	return matchTableModel{
		PublicID:           m.ID,
		ExternalID:         nullableString(m.ExternalID),
		EventID:            nullableString(m.EventID),
		Team1ID:            m.Team1ID,
		Team2ID:            m.Team2ID,
		Format:             m.Format,
		Status:             m.Status,
		Team1Score:         m.Team1Score,
		Team2Score:         m.Team2Score,
		WinnerID:           nullableString(m.WinnerID),
		CurrentMap:         m.CurrentMap,
		CurrentMapStatus:   m.CurrentMapStatus,
		IngestionRequestID: nullableString(m.IngestionRequestID),
		ScheduledAt:        m.ScheduledAt,
		StartedAt:          m.StartedAt,
		CompletedAt:        m.CompletedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func mapFromRow(row mapTableModel) match.Map {
	return match.Map{
		MatchID:         row.MatchID,
		Number:          row.Number,
		Name:            row.Name,
		GameMode:        row.GameMode,
		Team1Score:      row.Team1Score,
		Team2Score:      row.Team2Score,
		Team1Rounds:     intPtr(row.Team1Rounds),
		Team2Rounds:     intPtr(row.Team2Rounds),
		Status:          row.Status,
		WinnerID:        row.WinnerID.String,
		StartedAt:       row.StartedAt,
		EndedAt:         row.EndedAt,
		DurationSeconds: row.DurationSeconds,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func mapToRow(mp match.Map) mapTableModel {
	return mapTableModel{
		MatchID:         mp.MatchID,
		Number:          mp.Number,
		Name:            mp.Name,
		GameMode:        mp.GameMode,
		Team1Score:      mp.Team1Score,
		Team2Score:      mp.Team2Score,
		Team1Rounds:     nullableInt(mp.Team1Rounds),
		Team2Rounds:     nullableInt(mp.Team2Rounds),
		Status:          mp.Status,
		WinnerID:        nullableString(mp.WinnerID),
		StartedAt:       mp.StartedAt,
		EndedAt:         mp.EndedAt,
		DurationSeconds: mp.DurationSeconds,
		CreatedAt:       mp.CreatedAt,
		UpdatedAt:       mp.UpdatedAt,
	}
}
