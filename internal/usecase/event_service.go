package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/notify"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// CacheInvalidator drops derived read models after a committed write.
type CacheInvalidator interface {
	Delete(ctx context.Context, keys ...string)
}

type StatusChange struct {
	Event     event.Event
	OldStatus string
	NewStatus string
}

type StatusUpdate struct {
	EventID  string
	Status   string
	Featured *bool
}

type LiveEvents struct {
	FeaturedLive *event.Event
	LiveEvents   []event.Event
	TotalLive    int
}

type AutoPromoteResult struct {
	Started   int
	Completed int
}

// EventService owns event status transitions and the rule that at most one
// live event is featured.
type EventService struct {
	store     storage.Store
	cache     CacheInvalidator
	publisher notify.Publisher
	logger    *logging.Logger
	now       func() time.Time
}

func NewEventService(store storage.Store, cache CacheInvalidator, publisher notify.Publisher, logger *logging.Logger) *EventService {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &EventService{
		store:     store,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *EventService) SetStatus(ctx context.Context, in StatusUpdate) (StatusChange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.SetStatus", attribute.String("event.id", in.EventID))
	defer span.End()

	var change StatusChange
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		change, err = s.applyStatus(ctx, tx, in, -1)
		return err
	})
	if err != nil {
		recordSpanError(span, err)
		return StatusChange{}, err
	}

	s.afterCommit(ctx, []StatusChange{change})
	return change, nil
}

// SetFeaturedLive features an already live event and unfeatures the rest.
func (s *EventService) SetFeaturedLive(ctx context.Context, eventID string) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.SetFeaturedLive", attribute.String("event.id", eventID))
	defer span.End()

	var change StatusChange
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		current, err := s.getEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if !event.IsLive(current.Status) {
			return ruleErr("status", fmt.Errorf("%w: only live or ongoing events can be featured as live (status=%s)", event.ErrNotLive, current.Status))
		}

		featured := true
		change, err = s.applyStatus(ctx, tx, StatusUpdate{EventID: current.ID, Status: event.StatusOngoing, Featured: &featured}, -1)
		return err
	})
	if err != nil {
		recordSpanError(span, err)
		return event.Event{}, err
	}

	s.afterCommit(ctx, []StatusChange{change})
	return change.Event, nil
}

// BatchSetStatus applies every update in one transaction; any failure
// rolls back the whole batch.
func (s *EventService) BatchSetStatus(ctx context.Context, updates []StatusUpdate) ([]StatusChange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.BatchSetStatus", attribute.Int("batch.size", len(updates)))
	defer span.End()

	if len(updates) == 0 {
		return nil, invalidf("events: at least one update is required")
	}

	changes := make([]StatusChange, 0, len(updates))
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		for i, in := range updates {
			change, err := s.applyStatus(ctx, tx, in, i)
			if err != nil {
				if FieldErrors(err) == nil {
					err = fmt.Errorf("events[%d]: %w", i, err)
				}
				return err
			}
			changes = append(changes, change)
		}
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, changes)
	return changes, nil
}

// AutoPromote starts pending events whose window contains now and completes
// ongoing events that ended before now. A second run with the same now
// changes nothing.
func (s *EventService) AutoPromote(ctx context.Context, now time.Time) (AutoPromoteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.AutoPromote")
	defer span.End()

	now = now.UTC()
	var (
		result  AutoPromoteResult
		changes []StatusChange
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		starting, err := tx.Events().ListDueForStart(ctx, now)
		if err != nil {
			return storageErr("list events due for start", err)
		}
		ending, err := tx.Events().ListDueForCompletion(ctx, now)
		if err != nil {
			return storageErr("list events due for completion", err)
		}

		for _, e := range starting {
			old := e.Status
			e.ApplyStatus(event.StatusOngoing, now)
			e.UpdatedAt = now
			if e.IsFeaturedLive() {
				if err := s.ensureSoleFeaturedLive(ctx, tx, e.ID, now); err != nil {
					return err
				}
			}
			if err := tx.Events().Update(ctx, e); err != nil {
				return storageErr("start event", err)
			}
			changes = append(changes, StatusChange{Event: e, OldStatus: old, NewStatus: e.Status})
			result.Started++
		}
		for _, e := range ending {
			old := e.Status
			e.ApplyStatus(event.StatusCompleted, now)
			e.UpdatedAt = now
			if err := tx.Events().Update(ctx, e); err != nil {
				return storageErr("complete event", err)
			}
			changes = append(changes, StatusChange{Event: e, OldStatus: old, NewStatus: e.Status})
			result.Completed++
		}
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return AutoPromoteResult{}, err
	}

	if len(changes) > 0 {
		s.logger.InfoContext(ctx, "events auto-promoted", "started", result.Started, "completed", result.Completed)
		s.afterCommit(ctx, changes)
	}
	return result, nil
}

// GetLiveEvents returns the featured live event apart from the other live
// events, which stay ordered by start date, newest first.
func (s *EventService) GetLiveEvents(ctx context.Context) (LiveEvents, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.GetLiveEvents")
	defer span.End()

	live, err := s.store.Events().ListLive(ctx)
	if err != nil {
		recordSpanError(span, err)
		return LiveEvents{}, storageErr("list live events", err)
	}

	out := LiveEvents{LiveEvents: make([]event.Event, 0, len(live))}
	for i := range live {
		if out.FeaturedLive == nil && live[i].IsFeaturedLive() {
			featured := live[i]
			out.FeaturedLive = &featured
			continue
		}
		out.LiveEvents = append(out.LiveEvents, live[i])
	}
	out.TotalLive = len(live)
	return out, nil
}

// applyStatus is the single write path for event status and the featured
// flag. Every caller runs it inside a transaction.
func (s *EventService) applyStatus(ctx context.Context, tx storage.Tx, in StatusUpdate, index int) (StatusChange, error) {
	status, err := event.NormalizeStatus(in.Status)
	if err != nil {
		return StatusChange{}, ruleErr(fieldAt("status", index), err)
	}

	current, err := s.getEvent(ctx, tx, in.EventID)
	if err != nil {
		return StatusChange{}, err
	}
	if err := event.CanTransition(current.Status, status); err != nil {
		return StatusChange{}, ruleErr(fieldAt("status", index), err)
	}

	now := s.now().UTC()
	updated := current
	updated.ApplyStatus(status, now)
	if in.Featured != nil {
		updated.Featured = *in.Featured
	}
	updated.UpdatedAt = now

	if updated.IsFeaturedLive() {
		if err := s.ensureSoleFeaturedLive(ctx, tx, updated.ID, now); err != nil {
			return StatusChange{}, err
		}
	}
	if err := tx.Events().Update(ctx, updated); err != nil {
		return StatusChange{}, storageErr("update event", err)
	}

	return StatusChange{Event: updated, OldStatus: current.Status, NewStatus: updated.Status}, nil
}

// ensureSoleFeaturedLive takes the featured lock, then unfeatures every
// other featured live event.
func (s *EventService) ensureSoleFeaturedLive(ctx context.Context, tx storage.Tx, keepID string, now time.Time) error {
	if err := tx.Events().LockFeatured(ctx); err != nil {
		return storageErr("lock featured events", err)
	}
	featured, err := tx.Events().ListFeaturedLive(ctx)
	if err != nil {
		return storageErr("list featured live events", err)
	}
	for _, other := range featured {
		if other.ID == keepID {
			continue
		}
		other.Featured = false
		other.UpdatedAt = now
		if err := tx.Events().Update(ctx, other); err != nil {
			return storageErr("unfeature event", err)
		}
		s.logger.InfoContext(ctx, "event unfeatured", "event_id", other.ID, "featured_event_id", keepID)
	}
	return nil
}

func (s *EventService) getEvent(ctx context.Context, tx storage.Tx, eventID string) (event.Event, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return event.Event{}, invalidf("event id is required")
	}
	e, ok, err := tx.Events().GetByID(ctx, eventID)
	if err != nil {
		return event.Event{}, storageErr("get event", err)
	}
	if !ok {
		return event.Event{}, notFoundf("event=%s", eventID)
	}
	return e, nil
}

func (s *EventService) afterCommit(ctx context.Context, changes []StatusChange) {
	if s.cache != nil {
		s.cache.Delete(ctx, event.CacheKeyLive, event.CacheKeyFeatured, event.CacheKeyHomepage)
	}
	for _, c := range changes {
		if !event.IsLive(c.NewStatus) {
			continue
		}
		s.publisher.Publish(ctx, notify.Message{
			Topic: notify.TopicEvents,
			Type:  notify.TypeEventStatusChanged,
			Payload: map[string]any{
				"event_id":   c.Event.ID,
				"name":       c.Event.Name,
				"old_status": c.OldStatus,
				"new_status": c.NewStatus,
				"featured":   c.Event.Featured,
			},
		})
	}
}

func fieldAt(field string, index int) string {
	if index < 0 {
		return field
	}
	return fmt.Sprintf("events[%d].%s", index, field)
}
