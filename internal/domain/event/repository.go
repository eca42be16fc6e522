package event

import (
	"context"
	"time"
)

// Repository describes event persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, eventID string) (Event, bool, error)
	GetByName(ctx context.Context, name string) (Event, bool, error)
	Create(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
	// ListLive returns ongoing events ordered by start date, newest first.
	ListLive(ctx context.Context) ([]Event, error)
	ListFeaturedLive(ctx context.Context) ([]Event, error)
	// ListDueForStart returns pending events whose window contains now,
	// ordered by start date.
	ListDueForStart(ctx context.Context, now time.Time) ([]Event, error)
	ListDueForCompletion(ctx context.Context, now time.Time) ([]Event, error)
	// LockFeatured serializes writers of the featured-live flag until the
	// surrounding transaction ends.
	LockFeatured(ctx context.Context) error
}
