package memory

import (
	"context"

	"github.com/riskibarqy/esports-hub/internal/domain/vote"
)

type VoteRepository struct {
	a access
}

func (r *VoteRepository) Get(_ context.Context, userID string, target vote.Target) (vote.Vote, bool, error) {
	var (
		item vote.Vote
		ok   bool
	)
	r.a.read(func(d *dataset) {
		item, ok = d.votes[voteKey{userID: userID, target: target}]
	})
	return item, ok, nil
}

func (r *VoteRepository) Upsert(_ context.Context, v vote.Vote) error {
	return r.a.write(func(d *dataset) error {
		key := voteKey{userID: v.UserID, target: v.Target}
		if prev, ok := d.votes[key]; ok {
			v.CreatedAt = prev.CreatedAt
		}
		d.votes[key] = v
		return nil
	})
}

func (r *VoteRepository) Delete(_ context.Context, userID string, target vote.Target) error {
	return r.a.write(func(d *dataset) error {
		delete(d.votes, voteKey{userID: userID, target: target})
		return nil
	})
}

func (r *VoteRepository) Counts(_ context.Context, target vote.Target) (vote.Counts, error) {
	var out vote.Counts
	r.a.read(func(d *dataset) {
		for key, v := range d.votes {
			if key.target != target {
				continue
			}
			switch v.Type {
			case vote.TypeUpvote:
				out.Upvotes++
			case vote.TypeDownvote:
				out.Downvotes++
			}
		}
	})
	return out, nil
}
