package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/esports-hub/internal/usecase"
)

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	detail, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchDetailToDTO(ctx, detail))
}

func (h *Handler) UpdateMatchScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.UpdateMatchScore")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req updateMatchScoreRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	in := usecase.SeriesUpdate{
		Team1Score: *req.Team1Score,
		Team2Score: *req.Team2Score,
		CurrentMap: req.CurrentMap,
		Maps:       make([]usecase.MapInput, 0, len(req.Maps)),
	}
	for _, mp := range req.Maps {
		in.Maps = append(in.Maps, usecase.MapInput{
			Number:      mp.MapNumber,
			Name:        mp.Name,
			GameMode:    mp.GameMode,
			Team1Score:  mp.Team1Score,
			Team2Score:  mp.Team2Score,
			Team1Rounds: mp.Team1Rounds,
			Team2Rounds: mp.Team2Rounds,
			Status:      mp.Status,
			WinnerID:    mp.WinnerID,
		})
	}

	updated, maps, err := h.matchService.UpdateSeries(ctx, matchID, in)
	if err != nil {
		h.logger.WarnContext(ctx, "update match score failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchScoreDTO{
		Match: matchToDTO(ctx, updated),
		Maps:  mapsToDTO(maps),
	})
}

func (h *Handler) UpdateMatchMap(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.UpdateMatchMap")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	mapNumber, err := strconv.Atoi(strings.TrimSpace(r.PathValue("mapNumber")))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: map number must be an integer", usecase.ErrInvalidInput))
		return
	}

	var req updateMapRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, mp, err := h.matchService.UpdateMap(ctx, matchID, mapNumber, usecase.MapUpdate{
		Team1Score:  *req.Team1Score,
		Team2Score:  *req.Team2Score,
		Team1Rounds: req.Team1Rounds,
		Team2Rounds: req.Team2Rounds,
		Status:      req.Status,
		WinnerID:    req.WinnerID,
		GameMode:    req.GameMode,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update match map failed", "match_id", matchID, "map_number", mapNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapUpdateDTO{
		Match: matchToDTO(ctx, updated),
		Map:   mapToDTO(mp),
	})
}

func (h *Handler) GetMatchLive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetMatchLive")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	snap, err := h.matchService.GetLiveSnapshot(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get live match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, liveSnapshotToDTO(ctx, snap))
}
