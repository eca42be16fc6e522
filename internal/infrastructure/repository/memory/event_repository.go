package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
)

type EventRepository struct {
	a access
}

func (r *EventRepository) GetByID(_ context.Context, eventID string) (event.Event, bool, error) {
	var (
		item event.Event
		ok   bool
	)
	r.a.read(func(d *dataset) {
		item, ok = d.events[eventID]
	})
	return item, ok, nil
}

func (r *EventRepository) GetByName(_ context.Context, name string) (event.Event, bool, error) {
	var (
		item event.Event
		ok   bool
	)
	r.a.read(func(d *dataset) {
		for _, e := range d.events {
			if strings.EqualFold(e.Name, name) {
				item, ok = e, true
				return
			}
		}
	})
	return item, ok, nil
}

func (r *EventRepository) Create(_ context.Context, e event.Event) error {
	return r.a.write(func(d *dataset) error {
		if _, exists := d.events[e.ID]; exists {
			return fmt.Errorf("%w: event %s already exists", storage.ErrConflict, e.ID)
		}
		if err := checkSoleFeatured(d, e); err != nil {
			return err
		}
		d.events[e.ID] = e
		return nil
	})
}

func (r *EventRepository) Update(_ context.Context, e event.Event) error {
	return r.a.write(func(d *dataset) error {
		if _, exists := d.events[e.ID]; !exists {
			return fmt.Errorf("update event %s: no such row", e.ID)
		}
		if err := checkSoleFeatured(d, e); err != nil {
			return err
		}
		d.events[e.ID] = e
		return nil
	})
}

// checkSoleFeatured mirrors the partial unique index used by the SQL store.
func checkSoleFeatured(d *dataset, e event.Event) error {
	if !e.IsFeaturedLive() {
		return nil
	}
	for id, other := range d.events {
		if id != e.ID && other.IsFeaturedLive() {
			return fmt.Errorf("%w: event %s is already the featured live event", storage.ErrConflict, id)
		}
	}
	return nil
}

func (r *EventRepository) ListLive(_ context.Context) ([]event.Event, error) {
	out := r.filter(func(e event.Event) bool { return event.IsLive(e.Status) })
	sort.SliceStable(out, func(i, j int) bool {
		return startAfter(out[i].StartDate, out[j].StartDate)
	})
	return out, nil
}

func (r *EventRepository) ListFeaturedLive(_ context.Context) ([]event.Event, error) {
	out := r.filter(func(e event.Event) bool { return e.IsFeaturedLive() })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EventRepository) ListDueForStart(_ context.Context, now time.Time) ([]event.Event, error) {
	out := r.filter(func(e event.Event) bool { return e.DueForStart(now) })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartDate.Equal(*out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.Before(*out[j].StartDate)
	})
	return out, nil
}

func (r *EventRepository) ListDueForCompletion(_ context.Context, now time.Time) ([]event.Event, error) {
	out := r.filter(func(e event.Event) bool { return e.DueForCompletion(now) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndDate.Before(*out[j].EndDate) })
	return out, nil
}

// LockFeatured is a no-op: transactions already hold the store's writer lock.
func (r *EventRepository) LockFeatured(context.Context) error {
	return nil
}

func (r *EventRepository) filter(keep func(event.Event) bool) []event.Event {
	var out []event.Event
	r.a.read(func(d *dataset) {
		for _, e := range d.events {
			if keep(e) {
				out = append(out, e)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// startAfter orders newest first with undated events last.
func startAfter(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}
