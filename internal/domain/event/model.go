package event

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	StatusUpcoming  = "upcoming"
	StatusScheduled = "scheduled"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const FormatTournament = "tournament"

// Cache keys of derived live-event views, dropped after any committed change.
const (
	CacheKeyLive     = "events:live"
	CacheKeyFeatured = "events:featured"
	CacheKeyHomepage = "homepage"
)

var (
	ErrUnknownStatus     = errors.New("unknown event status")
	ErrTerminalStatus    = errors.New("event status is terminal")
	ErrInvalidTransition = errors.New("invalid event status transition")
	ErrNotLive           = errors.New("event is not live")
)

// Event is a tournament or competition that groups matches.
type Event struct {
	ID        string
	Name      string
	Status    string
	Featured  bool
	Format    string
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeStatus maps "live" onto ongoing and rejects anything outside the
// known set.
func NormalizeStatus(value string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(value))
	switch status {
	case "live":
		return StatusOngoing, nil
	case StatusUpcoming, StatusScheduled, StatusOngoing, StatusCompleted, StatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}
}

func IsLive(status string) bool {
	return status == StatusOngoing || status == "live"
}

func IsPending(status string) bool {
	return status == StatusUpcoming || status == StatusScheduled
}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// CanTransition checks upcoming -> ongoing -> completed, with cancelled
// reachable from any non-terminal state.
func CanTransition(from, to string) error {
	if from == to {
		return nil
	}
	if IsTerminal(from) {
		return fmt.Errorf("%w: cannot leave %s", ErrTerminalStatus, from)
	}
	if from == StatusOngoing && IsPending(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// ApplyStatus sets the status and backfills the date window.
func (e *Event) ApplyStatus(status string, now time.Time) {
	e.Status = status
	switch status {
	case StatusOngoing:
		if e.StartDate == nil || e.StartDate.After(now) {
			e.StartDate = timePtr(now)
		}
	case StatusCompleted:
		if e.EndDate == nil || e.EndDate.After(now) {
			e.EndDate = timePtr(now)
		}
	}
}

func (e Event) IsFeaturedLive() bool {
	return e.Featured && IsLive(e.Status)
}

// DueForStart reports whether a pending event's window contains now.
func (e Event) DueForStart(now time.Time) bool {
	if !IsPending(e.Status) || e.StartDate == nil || e.StartDate.After(now) {
		return false
	}
	return e.EndDate == nil || !e.EndDate.Before(now)
}

// DueForCompletion reports whether an ongoing event ended before now.
func (e Event) DueForCompletion(now time.Time) bool {
	return e.Status == StatusOngoing && e.EndDate != nil && e.EndDate.Before(now)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
