package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/esports-hub/internal/domain/vote"
)

func TestVoteService_ApplyVote_Toggle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewVoteService(newSeededStore(t), testLogger)
	svc.now = fixedClock()

	steps := []struct {
		userID     string
		voteType   string
		wantAction vote.Action
		wantUser   string
		wantUp     int
		wantDown   int
	}{
		{userID: "u1", voteType: "upvote", wantAction: vote.ActionCreated, wantUser: vote.TypeUpvote, wantUp: 1},
		{userID: "u2", voteType: "downvote", wantAction: vote.ActionCreated, wantUser: vote.TypeDownvote, wantUp: 1, wantDown: 1},
		{userID: "u1", voteType: "upvote", wantAction: vote.ActionRemoved, wantDown: 1},
		{userID: "u2", voteType: "UPVOTE", wantAction: vote.ActionChanged, wantUser: vote.TypeUpvote, wantUp: 1},
	}

	for i, step := range steps {
		got, err := svc.ApplyVote(ctx, step.userID, "forum_thread", "thread-42", step.voteType)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got.Action != step.wantAction || got.UserVote != step.wantUser {
			t.Fatalf("step %d: got action=%s user_vote=%q", i, got.Action, got.UserVote)
		}
		if got.Counts.Upvotes != step.wantUp || got.Counts.Downvotes != step.wantDown {
			t.Fatalf("step %d: unexpected counts %+v", i, got.Counts)
		}
		if got.Score() != step.wantUp-step.wantDown {
			t.Fatalf("step %d: unexpected score %d", i, got.Score())
		}
	}

	counts, err := svc.GetVoteCounts(ctx, "thread", "thread-42")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Upvotes != 1 || counts.Total() != 1 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestVoteService_ApplyVote_Validation(t *testing.T) {
	t.Parallel()

	svc := NewVoteService(newSeededStore(t), testLogger)
	tests := []struct {
		name     string
		userID   string
		kind     string
		target   string
		voteType string
		wantErr  error
		field    string
	}{
		{name: "anonymous", kind: "news", target: "n1", voteType: "upvote", wantErr: ErrUnauthorized},
		{name: "unknown kind", userID: "u1", kind: "video", target: "v1", voteType: "upvote", wantErr: vote.ErrUnknownKind, field: "votable_type"},
		{name: "missing target", userID: "u1", kind: "news", voteType: "upvote", wantErr: ErrInvalidInput, field: "votable_id"},
		{name: "unknown vote type", userID: "u1", kind: "news", target: "n1", voteType: "like", wantErr: vote.ErrUnknownType, field: "vote_type"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ApplyVote(context.Background(), tc.userID, tc.kind, tc.target, tc.voteType)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.field == "" {
				return
			}
			if fields := FieldErrors(err); len(fields) != 1 || fields[0].Field != tc.field {
				t.Fatalf("expected field %s, got %+v", tc.field, fields)
			}
		})
	}
}
