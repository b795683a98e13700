package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bailakids/registration-api/internal/models"
)

// WaitlistRepository persists waiting list entries.
type WaitlistRepository struct {
	db *sqlx.DB
}

// NewWaitlistRepository constructs a WaitlistRepository.
func NewWaitlistRepository(db *sqlx.DB) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

// Create inserts an entry.
func (r *WaitlistRepository) Create(ctx context.Context, entry *models.WaitingListEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO waiting_list (id, student_name, age, parent_name, phone, email, location, requested_day, notes, created_at)
VALUES (:id, :student_name, :age, :parent_name, :phone, :email, :location, :requested_day, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create waiting list entry: %w", err)
	}
	return nil
}

// List returns entries oldest first, optionally for one studio.
func (r *WaitlistRepository) List(ctx context.Context, location models.Location) ([]models.WaitingListEntry, error) {
	query := `SELECT id, student_name, age, parent_name, phone, email, location, requested_day, notes, created_at FROM waiting_list`
	var args []interface{}
	if location != "" {
		query += ` WHERE location = $1`
		args = append(args, location)
	}
	query += ` ORDER BY created_at ASC`

	var entries []models.WaitingListEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list waiting list: %w", err)
	}
	return entries, nil
}
