package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/domain/vote"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type VoteResult struct {
	Action   vote.Action
	Counts   vote.Counts
	UserVote string
}

func (r VoteResult) Score() int {
	return r.Counts.Score()
}

// VoteService toggles up/down votes on any votable content kind.
type VoteService struct {
	store  storage.Store
	logger *logging.Logger
	now    func() time.Time
}

func NewVoteService(store storage.Store, logger *logging.Logger) *VoteService {
	if logger == nil {
		logger = logging.Default()
	}
	return &VoteService{store: store, logger: logger, now: time.Now}
}

func (s *VoteService) ApplyVote(ctx context.Context, userID, kind, targetID, voteType string) (VoteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VoteService.ApplyVote",
		attribute.String("vote.kind", kind),
		attribute.String("vote.target_id", targetID),
	)
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return VoteResult{}, ErrUnauthorized
	}
	target, err := parseTarget(kind, targetID)
	if err != nil {
		return VoteResult{}, err
	}
	voteType, err = vote.ParseType(voteType)
	if err != nil {
		return VoteResult{}, ruleErr("vote_type", err)
	}

	var result VoteResult
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		existing, ok, err := tx.Votes().Get(ctx, userID, target)
		if err != nil {
			return storageErr("get vote", err)
		}
		var prior *vote.Vote
		if ok {
			prior = &existing
		}

		now := s.now().UTC()
		result.Action = vote.Decide(prior, voteType)
		switch result.Action {
		case vote.ActionRemoved:
			if err := tx.Votes().Delete(ctx, userID, target); err != nil {
				return storageErr("delete vote", err)
			}
		case vote.ActionCreated, vote.ActionChanged:
			v := vote.Vote{UserID: userID, Target: target, Type: voteType, CreatedAt: now, UpdatedAt: now}
			if prior != nil {
				v.CreatedAt = prior.CreatedAt
			}
			if err := tx.Votes().Upsert(ctx, v); err != nil {
				return storageErr("upsert vote", err)
			}
			result.UserVote = voteType
		}

		result.Counts, err = tx.Votes().Counts(ctx, target)
		if err != nil {
			return storageErr("count votes", err)
		}
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return VoteResult{}, err
	}

	s.logger.DebugContext(ctx, "vote applied",
		"target", target.String(),
		"action", result.Action,
		"score", result.Score(),
	)
	return result, nil
}

func (s *VoteService) GetVoteCounts(ctx context.Context, kind, targetID string) (vote.Counts, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VoteService.GetVoteCounts", attribute.String("vote.kind", kind))
	defer span.End()

	target, err := parseTarget(kind, targetID)
	if err != nil {
		return vote.Counts{}, err
	}
	counts, err := s.store.Votes().Counts(ctx, target)
	if err != nil {
		recordSpanError(span, err)
		return vote.Counts{}, storageErr("count votes", err)
	}
	return counts, nil
}

func parseTarget(kind, targetID string) (vote.Target, error) {
	k, err := vote.ParseKind(kind)
	if err != nil {
		return vote.Target{}, ruleErr("votable_type", err)
	}
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return vote.Target{}, newFieldErrorf("votable_id", "is required")
	}
	return vote.Target{Kind: k, ID: targetID}, nil
}
