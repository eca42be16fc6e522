package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/esports-hub/internal/domain/notify"
	"github.com/riskibarqy/esports-hub/internal/usecase"
)

func (h *Handler) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	h.subscribe(w, r, notify.TopicEvents)
}

func (h *Handler) SubscribeMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	// Only known matches get a topic.
	if _, err := h.matchService.GetLiveSnapshot(ctx, matchID); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.subscribe(w, r, notify.MatchTopic(matchID))
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request, topic string) {
	ctx := r.Context()
	if h.hub == nil {
		writeError(ctx, w, fmt.Errorf("%w: realtime hub is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	// Upgrade failures are already answered by the upgrader.
	if err := h.hub.Serve(w, r, topic); err != nil {
		h.logger.WarnContext(ctx, "websocket upgrade failed", "topic", topic, "error", err)
	}
}
