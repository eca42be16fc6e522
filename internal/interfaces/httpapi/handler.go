package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
	"github.com/riskibarqy/esports-hub/internal/usecase"
)

// maxBodyBytes caps JSON request bodies; a full ingestion batch stays well below it.
const maxBodyBytes = 4 << 20

// RealtimeHub upgrades a request into a subscription on topic.
type RealtimeHub interface {
	Serve(w http.ResponseWriter, r *http.Request, topic string) error
}

type Handler struct {
	matchService     *usecase.MatchService
	eventService     *usecase.EventService
	ingestionService *usecase.IngestionService
	voteService      *usecase.VoteService
	hub              RealtimeHub
	logger           *logging.Logger
	validator        *validator.Validate
	now              func() time.Time
}

func NewHandler(
	matchService *usecase.MatchService,
	eventService *usecase.EventService,
	ingestionService *usecase.IngestionService,
	voteService *usecase.VoteService,
	hub RealtimeHub,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:     matchService,
		eventService:     eventService,
		ingestionService: ingestionService,
		voteService:      voteService,
		hub:              hub,
		logger:           logger,
		validator:        validator.New(validator.WithRequiredStructEnabled()),
		now:              time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeAndValidate reads a strict JSON body into dst and runs struct validation.
func (h *Handler) decodeAndValidate(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dst)
}
