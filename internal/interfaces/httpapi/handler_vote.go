package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/esports-hub/internal/usecase"
)

func (h *Handler) ApplyVote(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ApplyVote")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req voteRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.voteService.ApplyVote(ctx, principal.UserID, req.VotableType, req.VotableID, req.VoteType)
	if err != nil {
		h.logger.WarnContext(ctx, "apply vote failed",
			"user_id", principal.UserID,
			"votable_type", req.VotableType,
			"votable_id", req.VotableID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, voteResultDTO{
		Action:   string(result.Action),
		Counts:   voteCountsToDTO(result.Counts),
		UserVote: result.UserVote,
		Score:    result.Score(),
	})
}

func (h *Handler) GetVoteCounts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetVoteCounts")
	defer span.End()

	kind := strings.TrimSpace(r.PathValue("kind"))
	targetID := strings.TrimSpace(r.PathValue("targetID"))

	counts, err := h.voteService.GetVoteCounts(ctx, kind, targetID)
	if err != nil {
		h.logger.WarnContext(ctx, "get vote counts failed", "votable_type", kind, "votable_id", targetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, voteCountsToDTO(counts))
}
