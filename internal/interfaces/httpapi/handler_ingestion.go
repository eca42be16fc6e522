package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/riskibarqy/esports-hub/internal/usecase"
)

// IngestMatches answers 200 when at least one record landed and 400 when the
// whole batch was rejected. Both carry the per-record breakdown.
func (h *Handler) IngestMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.IngestMatches")
	defer span.End()

	var req ingestMatchesRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	records := make([]usecase.IngestRecord, 0, len(req.Matches))
	for _, rec := range req.Matches {
		records = append(records, ingestRecordFromRequest(rec))
	}

	result, err := h.ingestionService.IngestBatch(ctx, records)
	if err != nil && result.RequestID == "" {
		h.logger.WarnContext(ctx, "ingest matches failed", "records", len(records), "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	resp := ingestResponse{
		Success:   err == nil,
		RequestID: result.RequestID,
		Summary: ingestSummaryDTO{
			Total:     result.Summary.Total,
			Processed: result.Summary.Processed,
			Failed:    result.Summary.Failed,
		},
		ProcessedMatches: ingestRecordsToDTO(result.Processed),
		Errors:           ingestRecordsToDTO(result.Errors),
	}
	if err != nil {
		status = http.StatusBadRequest
		if !errors.Is(err, usecase.ErrInvalidInput) {
			status = mapError(ctx, err).HTTPStatus
		}
		resp.Message = err.Error()
		h.logger.WarnContext(ctx, "ingest matches rejected", "request_id", result.RequestID, "errors", result.Summary.Failed, "error", err)
	}

	writeJSON(ctx, w, status, resp)
}

func (h *Handler) GetIngestionStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetIngestionStatus")
	defer span.End()

	requestID := strings.TrimSpace(r.PathValue("requestID"))
	items, err := h.ingestionService.GetIngestionStatus(ctx, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get ingestion status failed", "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := ingestStatusDTO{
		RequestID:    requestID,
		TotalMatches: len(items),
		Matches:      make([]ingestedMatchDTO, 0, len(items)),
	}
	for _, item := range items {
		out.Matches = append(out.Matches, ingestedMatchDTO{
			MatchID:     item.Match.ID,
			ExternalID:  item.Match.ExternalID,
			Team1Name:   item.Team1Name,
			Team2Name:   item.Team2Name,
			Team1Score:  item.Match.Team1Score,
			Team2Score:  item.Match.Team2Score,
			Status:      item.Match.Status,
			ScheduledAt: formatOptionalTime(item.Match.ScheduledAt),
			CompletedAt: formatOptionalTime(item.Match.CompletedAt),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) IngestionHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.IngestionHealth")
	defer span.End()

	if err := h.ingestionService.Health(ctx); err != nil {
		h.logger.ErrorContext(ctx, "ingestion health check failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "healthy"})
}
