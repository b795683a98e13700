package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bailakids/registration-api/internal/models"
	"github.com/bailakids/registration-api/pkg/database"
)

// ErrSectionFull is returned when promoting an enrollment into a section with no free seat.
var ErrSectionFull = errors.New("section is full")

// EnrollmentRepository manages section rosters.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListBySection returns the roster of a section, ACTIVE first, then by signup time.
func (r *EnrollmentRepository) ListBySection(ctx context.Context, sectionID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.section_id, e.status, e.created_at, e.updated_at,
       s.student_name, s.age, s.parent_name, s.phone, s.email, s.payment_status
FROM enrollments e
JOIN students s ON s.id = e.student_id
WHERE e.section_id = $1
ORDER BY CASE e.status WHEN 'ACTIVE' THEN 0 WHEN 'WAITLISTED' THEN 1 ELSE 2 END, e.created_at ASC`
	var roster []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &roster, query, sectionID); err != nil {
		return nil, fmt.Errorf("list section enrollments: %w", err)
	}
	return roster, nil
}

// FindByID fetches an enrollment.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, section_id, status, created_at, updated_at FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UpdateStatus changes an enrollment's status. Moving into ACTIVE locks the section and
// re-checks capacity in the same transaction, failing with ErrSectionFull.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error) {
	var updated models.Enrollment
	err := database.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		const selectQuery = `SELECT id, student_id, section_id, status, created_at, updated_at FROM enrollments WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &updated, selectQuery, id); err != nil {
			return err
		}
		if updated.Status == status {
			return nil
		}

		if status == models.EnrollmentActive {
			capacity, err := lockSection(ctx, tx, updated.SectionID)
			if err != nil {
				return err
			}
			active, err := countActive(ctx, tx, updated.SectionID)
			if err != nil {
				return err
			}
			if DecideEnrollmentStatus(capacity, active) != models.EnrollmentActive {
				return ErrSectionFull
			}
		}

		updated.Status = status
		updated.UpdatedAt = time.Now().UTC()
		const updateQuery = `UPDATE enrollments SET status = $1, updated_at = $2 WHERE id = $3`
		if _, err := tx.ExecContext(ctx, updateQuery, updated.Status, updated.UpdatedAt, updated.ID); err != nil {
			return fmt.Errorf("update enrollment status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// EnsureActive creates an ACTIVE enrollment unless one already exists for the pair. It reports whether a row was added.
func (r *EnrollmentRepository) EnsureActive(ctx context.Context, studentID, sectionID string) (bool, error) {
	now := time.Now().UTC()
	const query = `INSERT INTO enrollments (id, student_id, section_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (student_id, section_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, uuid.NewString(), studentID, sectionID, models.EnrollmentActive, now)
	if err != nil {
		return false, fmt.Errorf("ensure enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ensure enrollment rows: %w", err)
	}
	return affected > 0, nil
}
