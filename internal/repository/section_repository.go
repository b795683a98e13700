package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bailakids/registration-api/internal/models"
)

const sectionColumns = `s.id, s.location, s.day, s.label, s.session, s.capacity, s.price_cents, s.start_date, s.start_time, s.end_time, s.is_active, s.created_at, s.updated_at`

// dayOrder sorts weekdays in calendar order rather than alphabetically.
const dayOrder = `array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday'], s.day::text)`

// SectionRepository reads and seeds class sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a SectionRepository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// List returns sections with their ACTIVE enrollment counts, ordered by location, day and label.
func (r *SectionRepository) List(ctx context.Context, filter models.SectionFilter) ([]models.SectionAvailability, error) {
	args := []interface{}{models.EnrollmentActive}
	conditions := []string{"1=1"}

	if filter.ActiveOnly {
		conditions = append(conditions, "s.is_active = TRUE")
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		conditions = append(conditions, fmt.Sprintf("s.location = $%d", len(args)))
	}
	if filter.Session != "" {
		args = append(args, filter.Session)
		conditions = append(conditions, fmt.Sprintf("s.session = $%d", len(args)))
	}
	if len(filter.IDs) > 0 {
		args = append(args, pq.Array(filter.IDs))
		conditions = append(conditions, fmt.Sprintf("s.id = ANY($%d)", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s, COUNT(e.id) AS active_count
FROM class_sections s
LEFT JOIN enrollments e ON e.section_id = s.id AND e.status = $1
WHERE %s
GROUP BY s.id
ORDER BY s.location ASC, %s ASC, s.label ASC`, sectionColumns, strings.Join(conditions, " AND "), dayOrder)

	var sections []models.SectionAvailability
	if err := r.db.SelectContext(ctx, &sections, query, args...); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	for i := range sections {
		sections[i].ComputeSeats()
	}
	return sections, nil
}

// FindByID fetches a section without counts.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.ClassSection, error) {
	query := fmt.Sprintf(`SELECT %s FROM class_sections s WHERE s.id = $1`, sectionColumns)
	var section models.ClassSection
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// FirstByLocationDay returns the lowest-labelled active section for a studio weekday in a session.
func (r *SectionRepository) FirstByLocationDay(ctx context.Context, location models.Location, day models.Day, session models.Session) (*models.ClassSection, error) {
	query := fmt.Sprintf(`SELECT %s FROM class_sections s
WHERE s.location = $1 AND s.day = $2 AND s.session = $3 AND s.is_active = TRUE
ORDER BY s.label ASC LIMIT 1`, sectionColumns)
	var section models.ClassSection
	if err := r.db.GetContext(ctx, &section, query, location, day, session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find section for %s %s: %w", location, day, err)
	}
	return &section, nil
}

// Upsert inserts a section or updates the one sharing its (location, day, label, session) key.
func (r *SectionRepository) Upsert(ctx context.Context, section *models.ClassSection) error {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if section.CreatedAt.IsZero() {
		section.CreatedAt = now
	}
	section.UpdatedAt = now

	const query = `INSERT INTO class_sections (id, location, day, label, session, capacity, price_cents, start_date, start_time, end_time, is_active, created_at, updated_at)
VALUES (:id, :location, :day, :label, :session, :capacity, :price_cents, :start_date, :start_time, :end_time, :is_active, :created_at, :updated_at)
ON CONFLICT (location, day, label, session)
DO UPDATE SET capacity = EXCLUDED.capacity, price_cents = EXCLUDED.price_cents, start_date = EXCLUDED.start_date,
              start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, is_active = EXCLUDED.is_active,
              updated_at = EXCLUDED.updated_at
RETURNING id`

	rows, err := r.db.NamedQueryContext(ctx, query, section)
	if err != nil {
		return fmt.Errorf("upsert section: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&section.ID); err != nil {
			return fmt.Errorf("scan section id: %w", err)
		}
	}
	return rows.Err()
}
