package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bailakids/registration-api/internal/models"
)

const studentColumns = `id, student_name, age, parent_name, phone, email, location, frequency, selected_days, start_date,
    payment_status, payment_method, liability_accepted, waiver_name, waiver_address, session, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var args []interface{}
	conditions := []string{"1=1"}

	if filter.Session != "" {
		args = append(args, filter.Session)
		conditions = append(conditions, fmt.Sprintf("session = $%d", len(args)))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		conditions = append(conditions, fmt.Sprintf("location = $%d", len(args)))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(LOWER(student_name) LIKE $%d OR LOWER(parent_name) LIKE $%d OR LOWER(email) LIKE $%d)", n, n, n))
	}
	where := strings.Join(conditions, " AND ")

	allowedSorts := map[string]string{
		"studentName": "student_name",
		"parentName":  "parent_name",
		"startDate":   "start_date",
		"createdAt":   "created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 50
	}

	query := fmt.Sprintf(`SELECT %s FROM students WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		studentColumns, where, column, order, size, (page-1)*size)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM students WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Update applies a partial update and returns the stored row. sql.ErrNoRows means the id is unknown.
func (r *StudentRepository) Update(ctx context.Context, id string, update models.StudentUpdate) (*models.Student, error) {
	var sets []string
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.StudentName != nil {
		set("student_name", *update.StudentName)
	}
	if update.Age != nil {
		set("age", *update.Age)
	}
	if update.ParentName != nil {
		set("parent_name", *update.ParentName)
	}
	if update.Phone != nil {
		set("phone", *update.Phone)
	}
	if update.Email != nil {
		set("email", *update.Email)
	}
	if update.Location != nil {
		set("location", *update.Location)
	}
	if update.Frequency != nil {
		set("frequency", *update.Frequency)
	}
	if update.SelectedDays != nil {
		set("selected_days", pq.StringArray(update.SelectedDays))
	}
	if update.StartDate != nil {
		set("start_date", *update.StartDate)
	}
	if update.PaymentStatus != nil {
		set("payment_status", *update.PaymentStatus)
	}
	if update.PaymentMethod != nil {
		set("payment_method", *update.PaymentMethod)
	}
	set("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE students SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), studentColumns)

	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, args...); err != nil {
		return nil, err
	}
	return &student, nil
}

// CountByDay counts students per (location, day) in a session. A twice-weekly student counts once on each day.
func (r *StudentRepository) CountByDay(ctx context.Context, session models.Session) ([]models.DayCount, error) {
	const query = `SELECT s.location, d.day, COUNT(*) AS count
FROM students s CROSS JOIN LATERAL unnest(s.selected_days) AS d(day)
WHERE s.session = $1
GROUP BY s.location, d.day`
	var counts []models.DayCount
	if err := r.db.SelectContext(ctx, &counts, query, session); err != nil {
		return nil, fmt.Errorf("count students by day: %w", err)
	}
	return counts, nil
}

// ListStartingBetween returns students whose first class falls in [from, to).
func (r *StudentRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE start_date >= $1 AND start_date < $2 ORDER BY start_date ASC, student_name ASC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, from, to); err != nil {
		return nil, fmt.Errorf("list students by start date: %w", err)
	}
	return students, nil
}

// ListWithSelectedDays returns legacy registrations that still carry day selections.
func (r *StudentRepository) ListWithSelectedDays(ctx context.Context, session models.Session) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE session = $1 AND cardinality(selected_days) > 0 ORDER BY created_at ASC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, session); err != nil {
		return nil, fmt.Errorf("list legacy students: %w", err)
	}
	return students, nil
}
