package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bailakids/registration-api/internal/models"
	"github.com/bailakids/registration-api/pkg/database"
)

// ErrSectionUnavailable is returned when a requested section is missing or inactive at lock time.
var ErrSectionUnavailable = errors.New("section not found or inactive")

const insertStudentQuery = `INSERT INTO students (id, student_name, age, parent_name, phone, email, location, frequency, selected_days,
    start_date, payment_status, payment_method, liability_accepted, waiver_name, waiver_address, session, created_at, updated_at)
VALUES (:id, :student_name, :age, :parent_name, :phone, :email, :location, :frequency, :selected_days,
    :start_date, :payment_status, :payment_method, :liability_accepted, :waiver_name, :waiver_address, :session, :created_at, :updated_at)`

// RegistrationRepository writes a student and its enrollments atomically.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// CreateStudent inserts a legacy registration with no enrollments.
func (r *RegistrationRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	prepareStudent(student)
	if _, err := r.db.NamedExecContext(ctx, insertStudentQuery, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// CreateWithEnrollments inserts the student and one enrollment per section in a single transaction.
// Each section row is locked before its ACTIVE count is read, so concurrent registrations for the
// last seat serialize and the later one is WAITLISTED.
func (r *RegistrationRepository) CreateWithEnrollments(ctx context.Context, student *models.Student, sectionIDs []string) ([]models.Enrollment, error) {
	prepareStudent(student)
	var enrollments []models.Enrollment

	err := database.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, insertStudentQuery, student); err != nil {
			return fmt.Errorf("create student: %w", err)
		}

		capacities, err := lockSections(ctx, tx, sectionIDs)
		if err != nil {
			return err
		}

		enrollments = make([]models.Enrollment, 0, len(sectionIDs))
		for _, sectionID := range sectionIDs {
			active, err := countActive(ctx, tx, sectionID)
			if err != nil {
				return err
			}
			enrollment := models.Enrollment{
				ID:        uuid.NewString(),
				StudentID: student.ID,
				SectionID: sectionID,
				Status:    DecideEnrollmentStatus(capacities[sectionID], active),
				CreatedAt: student.CreatedAt,
				UpdatedAt: student.CreatedAt,
			}
			if err := insertEnrollment(ctx, tx, &enrollment); err != nil {
				return err
			}
			enrollments = append(enrollments, enrollment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

// DecideEnrollmentStatus grants a seat while ACTIVE enrollments are below capacity.
func DecideEnrollmentStatus(capacity, active int) models.EnrollmentStatus {
	if active < capacity {
		return models.EnrollmentActive
	}
	return models.EnrollmentWaitlisted
}

// lockSections takes row locks in id order so that two registrations for the same pair cannot deadlock.
func lockSections(ctx context.Context, tx *sqlx.Tx, sectionIDs []string) (map[string]int, error) {
	ordered := append([]string(nil), sectionIDs...)
	sort.Strings(ordered)

	capacities := make(map[string]int, len(ordered))
	for _, id := range ordered {
		if _, seen := capacities[id]; seen {
			continue
		}
		capacity, err := lockSection(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		capacities[id] = capacity
	}
	return capacities, nil
}

func lockSection(ctx context.Context, tx *sqlx.Tx, sectionID string) (int, error) {
	const query = `SELECT capacity FROM class_sections WHERE id = $1 AND is_active = TRUE FOR UPDATE`
	var capacity int
	if err := tx.GetContext(ctx, &capacity, query, sectionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("lock section %s: %w", sectionID, ErrSectionUnavailable)
		}
		return 0, fmt.Errorf("lock section %s: %w", sectionID, err)
	}
	return capacity, nil
}

func countActive(ctx context.Context, tx *sqlx.Tx, sectionID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE section_id = $1 AND status = $2`
	var active int
	if err := tx.GetContext(ctx, &active, query, sectionID, models.EnrollmentActive); err != nil {
		return 0, fmt.Errorf("count active enrollments: %w", err)
	}
	return active, nil
}

func insertEnrollment(ctx context.Context, tx *sqlx.Tx, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (id, student_id, section_id, status, created_at, updated_at)
VALUES (:id, :student_id, :section_id, :status, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

func prepareStudent(student *models.Student) {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	if student.PaymentStatus == "" {
		student.PaymentStatus = models.PaymentPending
	}
	if student.SelectedDays == nil {
		student.SelectedDays = []string{}
	}
}
