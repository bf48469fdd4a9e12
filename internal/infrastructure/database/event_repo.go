package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, draft_key, title, description, location, start_date, end_date,
	is_published, is_cancelled, allow_on_site_payment,
	full_payment_amount, advance_payment_amount, advance_payment_deadline,
	created_at, updated_at`

func scanEvent(row pgx.Row) (*entities.Event, error) {
	var (
		e             entities.Event
		full, advance decimal.NullDecimal
	)
	err := row.Scan(
		&e.ID, &e.DraftKey, &e.Title, &e.Description, &e.Location, &e.StartDate, &e.EndDate,
		&e.IsPublished, &e.IsCancelled, &e.AllowOnSitePayment,
		&full, &advance, &e.AdvancePaymentDeadline,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.FullPaymentAmount = decimalPtr(full)
	e.AdvancePaymentAmount = decimalPtr(advance)
	return &e, nil
}

// Create inserts the draft. A conflict on the draft key means the same
// creation dialog already persisted its event (retried final step); the
// existing row is returned instead of a duplicate.
func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (
			draft_key, title, description, location, start_date, end_date,
			is_published, is_cancelled, allow_on_site_payment,
			full_payment_amount, advance_payment_amount, advance_payment_deadline
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (draft_key) DO UPDATE SET draft_key = excluded.draft_key
		RETURNING `+eventColumns,
		event.DraftKey, event.Title, event.Description, event.Location,
		event.StartDate, event.EndDate,
		event.IsPublished, event.IsCancelled, event.AllowOnSitePayment,
		nullDecimal(event.FullPaymentAmount), nullDecimal(event.AdvancePaymentAmount),
		event.AdvancePaymentDeadline,
	)
	stored, err := scanEvent(row)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	*event = *stored
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*entities.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, int64(id))
	e, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", notFound(err, domain.ErrEventNotFound))
	}
	return e, nil
}

func (r *EventRepository) FindUpcoming(ctx context.Context, now time.Time) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE is_published AND NOT is_cancelled AND start_date > $1
		ORDER BY start_date`, now)
	if err != nil {
		return nil, fmt.Errorf("find upcoming events: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) FindPast(ctx context.Context, now time.Time) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE is_published AND start_date <= $1
		ORDER BY start_date DESC`, now)
	if err != nil {
		return nil, fmt.Errorf("find past events: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) FindAll(ctx context.Context) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("find all events: %w", err)
	}
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]entities.Event, error) {
	defer rows.Close()
	var out []entities.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, event *entities.Event) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE events SET
			title = $2, description = $3, location = $4, start_date = $5, end_date = $6,
			is_published = $7, is_cancelled = $8, allow_on_site_payment = $9,
			full_payment_amount = $10, advance_payment_amount = $11, advance_payment_deadline = $12,
			updated_at = now()
		WHERE id = $1`,
		int64(event.ID),
		event.Title, event.Description, event.Location, event.StartDate, event.EndDate,
		event.IsPublished, event.IsCancelled, event.AllowOnSitePayment,
		nullDecimal(event.FullPaymentAmount), nullDecimal(event.AdvancePaymentAmount),
		event.AdvancePaymentDeadline,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
