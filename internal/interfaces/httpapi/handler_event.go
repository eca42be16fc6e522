package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/esports-hub/internal/usecase"
)

func (h *Handler) SetEventStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.SetEventStatus")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))

	var req setEventStatusRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	change, err := h.eventService.SetStatus(ctx, usecase.StatusUpdate{
		EventID:  eventID,
		Status:   req.Status,
		Featured: req.Featured,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set event status failed", "event_id", eventID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statusChangeToDTO(change))
}

func (h *Handler) SetFeaturedLiveEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.SetFeaturedLiveEvent")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	item, err := h.eventService.SetFeaturedLive(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "set featured live event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(item))
}

func (h *Handler) ListLiveEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListLiveEvents")
	defer span.End()

	live, err := h.eventService.GetLiveEvents(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list live events failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := liveEventsDTO{
		LiveEvents: make([]eventDTO, 0, len(live.LiveEvents)),
		TotalLive:  live.TotalLive,
	}
	if live.FeaturedLive != nil {
		featured := eventToDTO(*live.FeaturedLive)
		out.FeaturedLive = &featured
	}
	for _, e := range live.LiveEvents {
		out.LiveEvents = append(out.LiveEvents, eventToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) BatchSetEventStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.BatchSetEventStatus")
	defer span.End()

	var req batchEventStatusRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updates := make([]usecase.StatusUpdate, 0, len(req.Events))
	for _, item := range req.Events {
		updates = append(updates, usecase.StatusUpdate{
			EventID:  item.EventID,
			Status:   item.Status,
			Featured: item.Featured,
		})
	}

	changes, err := h.eventService.BatchSetStatus(ctx, updates)
	if err != nil {
		h.logger.WarnContext(ctx, "batch set event status failed", "updates", len(updates), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]statusChangeDTO, 0, len(changes))
	for _, c := range changes {
		items = append(items, statusChangeToDTO(c))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AutoUpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.AutoUpdateEventStatus")
	defer span.End()

	result, err := h.eventService.AutoPromote(ctx, h.now())
	if err != nil {
		h.logger.WarnContext(ctx, "auto update event status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, autoPromoteDTO{
		Started:   result.Started,
		Completed: result.Completed,
	})
}
