package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/esports-hub/internal/domain/player"
	qb "github.com/riskibarqy/esports-hub/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db sqlx.ExtContext
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	query, args, err := qb.Select(qb.Columns(playerTableModel{})...).
		From("players").
		Where(qb.Expr("LOWER(name) = LOWER(?)", name), qb.IsNull("deleted_at")).
		OrderBy("id ASC").
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by name query: %w", err)
	}

	var row playerTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by name: %w", err)
	}

	return player.Player{
		ID:        row.PublicID,
		TeamID:    row.TeamID.String,
		Name:      row.Name,
		Role:      row.Role,
		Country:   row.Country,
		CreatedAt: row.CreatedAt,
	}, true, nil
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}
	query, args, err := qb.InsertModel("players", playerTableModel{
		PublicID:  p.ID,
		TeamID:    nullableString(p.TeamID),
		Name:      p.Name,
		Role:      p.Role,
		Country:   p.Country,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return writeError("insert player", err)
	}
	return nil
}
