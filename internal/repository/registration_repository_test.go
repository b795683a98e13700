package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bailakids/registration-api/internal/models"
)

const studentInsertArgs = 18

func anyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

func newStudent() *models.Student {
	return &models.Student{
		StudentName:       "Ana Lopez",
		Age:               5,
		ParentName:        "Maria Lopez",
		Phone:             "281-555-0100",
		Email:             "maria@example.com",
		Location:          models.LocationSugarLand,
		Frequency:         models.OnceAWeek,
		LiabilityAccepted: true,
		Session:           models.SessionSpring2026,
	}
}

func TestDecideEnrollmentStatus(t *testing.T) {
	assert.Equal(t, models.EnrollmentActive, DecideEnrollmentStatus(22, 21))
	assert.Equal(t, models.EnrollmentWaitlisted, DecideEnrollmentStatus(22, 22))
	assert.Equal(t, models.EnrollmentWaitlisted, DecideEnrollmentStatus(22, 30))
}

func TestRegistrationRepositoryCreateStudent(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(anyArgs(studentInsertArgs)...).
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := newStudent()
	student.SelectedDays = []string{"Tuesday"}
	require.NoError(t, repo.CreateStudent(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, models.PaymentPending, student.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryCreateWithEnrollments(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	lock := regexp.QuoteMeta("SELECT capacity FROM class_sections WHERE id = $1 AND is_active = TRUE FOR UPDATE")
	count := regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE section_id = $1 AND status = $2")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO students").WithArgs(anyArgs(studentInsertArgs)...).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(lock).WithArgs("sec-mon-A").WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(22))
	mock.ExpectQuery(lock).WithArgs("sec-thu-A").WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(22))
	mock.ExpectQuery(count).WithArgs("sec-thu-A", models.EnrollmentActive).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectExec("INSERT INTO enrollments").WithArgs(anyArgs(6)...).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(count).WithArgs("sec-mon-A", models.EnrollmentActive).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(22))
	mock.ExpectExec("INSERT INTO enrollments").WithArgs(anyArgs(6)...).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	student := newStudent()
	student.Frequency = models.TwiceAWeek
	enrollments, err := repo.CreateWithEnrollments(context.Background(), student, []string{"sec-thu-A", "sec-mon-A"})
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	assert.Equal(t, "sec-thu-A", enrollments[0].SectionID)
	assert.Equal(t, models.EnrollmentActive, enrollments[0].Status)
	assert.Equal(t, models.EnrollmentWaitlisted, enrollments[1].Status)
	assert.Equal(t, student.ID, enrollments[1].StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryRollsBackOnMissingSection(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO students").WithArgs(anyArgs(studentInsertArgs)...).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("FOR UPDATE").WithArgs("gone").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.CreateWithEnrollments(context.Background(), newStudent(), []string{"gone"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSectionUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}
