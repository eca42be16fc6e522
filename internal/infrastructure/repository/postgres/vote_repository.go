package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/esports-hub/internal/domain/vote"
	qb "github.com/riskibarqy/esports-hub/internal/platform/querybuilder"
)

const votesTable = "votes"

type VoteRepository struct {
	db sqlx.ExtContext
}

func NewVoteRepository(db *sqlx.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

func (r *VoteRepository) Get(ctx context.Context, userID string, target vote.Target) (vote.Vote, bool, error) {
	query, args, err := qb.Select(qb.Columns(voteTableModel{})...).
		From(votesTable).
		Where(targetConds(target, qb.Eq("user_id", userID))...).
		Limit(1).
		ForUpdate().
		ToSQL()
	if err != nil {
		return vote.Vote{}, false, fmt.Errorf("build get vote query: %w", err)
	}

	var row voteTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return vote.Vote{}, false, nil
		}
		return vote.Vote{}, false, fmt.Errorf("get vote: %w", err)
	}

	return vote.Vote{
		UserID:    row.UserID,
		Target:    vote.Target{Kind: vote.Kind(row.Kind), ID: row.TargetID},
		Type:      row.Type,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

func (r *VoteRepository) Upsert(ctx context.Context, v vote.Vote) error {
	query, args, err := qb.UpsertModel(votesTable, voteTableModel{
		UserID:    v.UserID,
		Kind:      string(v.Target.Kind),
		TargetID:  v.Target.ID,
		Type:      v.Type,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}, "user_id", "votable_type", "votable_id")
	if err != nil {
		return fmt.Errorf("build upsert vote query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return writeError("upsert vote", err)
	}
	return nil
}

func (r *VoteRepository) Delete(ctx context.Context, userID string, target vote.Target) error {
	query, args, err := qb.DeleteFrom(votesTable).Where(targetConds(target, qb.Eq("user_id", userID))...).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete vote query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

func (r *VoteRepository) Counts(ctx context.Context, target vote.Target) (vote.Counts, error) {
	query, args, err := qb.Select(
		"COUNT(*) FILTER (WHERE vote_type = 'upvote') AS upvotes",
		"COUNT(*) FILTER (WHERE vote_type = 'downvote') AS downvotes",
	).
		From(votesTable).
		Where(targetConds(target)...).
		ToSQL()
	if err != nil {
		return vote.Counts{}, fmt.Errorf("build count votes query: %w", err)
	}

	var row voteCountsRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		return vote.Counts{}, fmt.Errorf("count votes: %w", err)
	}
	return vote.Counts{Upvotes: row.Upvotes, Downvotes: row.Downvotes}, nil
}

func targetConds(target vote.Target, extra ...qb.Condition) []qb.Condition {
	out := make([]qb.Condition, 0, len(extra)+2)
	out = append(out, extra...)
	out = append(out, qb.Eq("votable_type", string(target.Kind)), qb.Eq("votable_id", target.ID))
	return out
}
