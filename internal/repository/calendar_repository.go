package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bailakids/registration-api/internal/models"
)

// CalendarRepository stores the notes administrators pin to calendar dates
// (closures, recitals, make-up classes).
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository wraps db.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// ListBetween returns notes dated on or after from and before to, oldest first.
func (r *CalendarRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	events := []models.CalendarEvent{}
	err := r.db.SelectContext(ctx, &events, `
SELECT id, event_date, note, created_by, created_at
FROM calendar_events
WHERE event_date >= $1 AND event_date < $2
ORDER BY event_date, created_at`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list calendar events %s..%s: %w", from.Format(time.DateOnly), to.Format(time.DateOnly), err)
	}
	return events, nil
}

// Create inserts event, assigning its id. created_at comes from the database clock.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	row := r.db.QueryRowxContext(ctx, `
INSERT INTO calendar_events (id, event_date, note, created_by)
VALUES ($1, $2, $3, $4)
RETURNING created_at`, event.ID, event.Date, event.Note, event.CreatedBy)
	if err := row.Scan(&event.CreatedAt); err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	return nil
}

// Delete removes a note. A missing id yields sql.ErrNoRows.
func (r *CalendarRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete calendar event %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
