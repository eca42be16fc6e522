package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/esports-hub/internal/platform/logging"
)

const defaultAutoPromoteInterval = time.Minute

type EventPromoter interface {
	AutoPromote(ctx context.Context, now time.Time) (AutoPromoteResult, error)
}

// EventScheduler runs AutoPromote on a fixed interval until ctx ends.
type EventScheduler struct {
	promoter EventPromoter
	interval time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

func NewEventScheduler(promoter EventPromoter, interval time.Duration, logger *logging.Logger) *EventScheduler {
	if interval <= 0 {
		interval = defaultAutoPromoteInterval
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &EventScheduler{
		promoter: promoter,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *EventScheduler) Run(ctx context.Context) {
	s.logger.InfoContext(ctx, "event auto promote scheduler started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("event auto promote scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *EventScheduler) tick(ctx context.Context) {
	result, err := s.promoter.AutoPromote(ctx, s.now())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.WarnContext(ctx, "event auto promote failed", "error", err)
		return
	}
	if result.Started > 0 || result.Completed > 0 {
		s.logger.InfoContext(ctx, "event statuses auto updated",
			"started", result.Started,
			"completed", result.Completed,
		)
	}
}
