package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/esports-hub/internal/domain/event"
	qb "github.com/riskibarqy/esports-hub/internal/platform/querybuilder"
)

const eventsTable = "events"

// featuredLockKey is the advisory lock guarding the featured-live flag.
const featuredLockKey int64 = 0x6576_656e_7466

type EventRepository struct {
	db sqlx.ExtContext
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetByID(ctx context.Context, eventID string) (event.Event, bool, error) {
	return r.getOne(ctx, "get event by id", qb.Eq("public_id", eventID))
}

func (r *EventRepository) GetByName(ctx context.Context, name string) (event.Event, bool, error) {
	return r.getOne(ctx, "get event by name", qb.Expr("LOWER(name) = LOWER(?)", name))
}

func (r *EventRepository) getOne(ctx context.Context, op string, cond qb.Condition) (event.Event, bool, error) {
	query, args, err := qb.Select(qb.Columns(eventTableModel{})...).
		From(eventsTable).
		Where(cond, qb.IsNull("deleted_at")).
		OrderBy("id ASC").
		Limit(1).
		ToSQL()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row eventTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return eventFromRow(row), true, nil
}

func (r *EventRepository) Create(ctx context.Context, e event.Event) error {
	query, args, err := qb.InsertModel(eventsTable, eventToRow(e), "")
	if err != nil {
		return fmt.Errorf("build insert event query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return writeError("insert event", err)
	}
	return nil
}

func (r *EventRepository) Update(ctx context.Context, e event.Event) error {
	row := eventToRow(e)
	query, args, err := qb.Update(eventsTable).
		Set("name", row.Name).
		Set("status", row.Status).
		Set("featured", row.Featured).
		Set("format", row.Format).
		Set("start_date", row.StartDate).
		Set("end_date", row.EndDate).
		Set("updated_at", row.UpdatedAt).
		Where(qb.Eq("public_id", row.PublicID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update event query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return writeError("update event", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update event %s: no such row", e.ID)
	}
	return nil
}

func (r *EventRepository) ListLive(ctx context.Context) ([]event.Event, error) {
	return r.list(ctx, "list live events",
		[]qb.Condition{qb.Eq("status", event.StatusOngoing)},
		"start_date DESC NULLS LAST", "public_id ASC")
}

func (r *EventRepository) ListFeaturedLive(ctx context.Context) ([]event.Event, error) {
	return r.list(ctx, "list featured live events",
		[]qb.Condition{qb.Eq("status", event.StatusOngoing), qb.Eq("featured", true)},
		"public_id ASC")
}

func (r *EventRepository) ListDueForStart(ctx context.Context, now time.Time) ([]event.Event, error) {
	return r.list(ctx, "list events due for start",
		[]qb.Condition{
			qb.In("status", event.StatusUpcoming, event.StatusScheduled),
			qb.Lte("start_date", now),
			qb.Expr("(end_date IS NULL OR end_date >= ?)", now),
		},
		"start_date ASC", "public_id ASC")
}

func (r *EventRepository) ListDueForCompletion(ctx context.Context, now time.Time) ([]event.Event, error) {
	return r.list(ctx, "list events due for completion",
		[]qb.Condition{
			qb.Eq("status", event.StatusOngoing),
			qb.IsNotNull("end_date"),
			qb.Lt("end_date", now),
		},
		"end_date ASC", "public_id ASC")
}

// LockFeatured takes a transaction-scoped advisory lock. Outside a
// transaction the lock is released as soon as the statement finishes.
func (r *EventRepository) LockFeatured(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", featuredLockKey); err != nil {
		return fmt.Errorf("lock featured events: %w", err)
	}
	return nil
}

func (r *EventRepository) list(ctx context.Context, op string, conds []qb.Condition, orderBy ...string) ([]event.Event, error) {
	query, args, err := qb.Select(qb.Columns(eventTableModel{})...).
		From(eventsTable).
		Where(conds...).
		Where(qb.IsNull("deleted_at")).
		OrderBy(orderBy...).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []eventTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromRow(row))
	}
	return out, nil
}

func eventFromRow(row eventTableModel) event.Event {
	return event.Event{
		ID:        row.PublicID,
		Name:      row.Name,
		Status:    row.Status,
		Featured:  row.Featured,
		Format:    row.Format,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func eventToRow(e event.Event) eventTableModel {
	return eventTableModel{
		PublicID:  e.ID,
		Name:      e.Name,
		Status:    e.Status,
		Featured:  e.Featured,
		Format:    e.Format,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
