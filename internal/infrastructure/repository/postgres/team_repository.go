package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
	qb "github.com/riskibarqy/esports-hub/internal/platform/querybuilder"
)

type TeamRepository struct {
	db sqlx.ExtContext
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	return r.getOne(ctx, "get team by id", qb.Eq("public_id", teamID))
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (team.Team, bool, error) {
	return r.getOne(ctx, "get team by name", qb.Expr("LOWER(name) = LOWER(?)", name))
}

func (r *TeamRepository) getOne(ctx context.Context, op string, cond qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select(qb.Columns(teamTableModel{})...).
		From("teams").
		Where(cond, qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("%s: %w", op, err)
	}

	return team.Team{
		ID:        row.PublicID,
		Name:      row.Name,
		Country:   row.Country,
		Region:    row.Region,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}, true, nil
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}
	query, args, err := qb.InsertModel("teams", teamTableModel{
		PublicID:  t.ID,
		Name:      t.Name,
		Country:   t.Country,
		Region:    t.Region,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return writeError("insert team", err)
	}
	return nil
}
