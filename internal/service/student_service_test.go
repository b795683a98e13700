package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type studentRepoStub struct {
	students   map[string]models.Student
	lastFilter models.StudentFilter
	lastUpdate models.StudentUpdate
	err        error
}

func (s *studentRepoStub) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, 0, s.err
	}
	var out []models.Student
	for _, st := range s.students {
		if filter.PaymentStatus != "" && st.PaymentStatus != filter.PaymentStatus {
			continue
		}
		out = append(out, st)
	}
	return out, len(out), nil
}

func (s *studentRepoStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s.err != nil {
		return nil, s.err
	}
	st, ok := s.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &st, nil
}

func (s *studentRepoStub) Update(ctx context.Context, id string, update models.StudentUpdate) (*models.Student, error) {
	s.lastUpdate = update
	if s.err != nil {
		return nil, s.err
	}
	st, ok := s.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if update.PaymentStatus != nil {
		st.PaymentStatus = *update.PaymentStatus
	}
	if update.StartDate != nil {
		st.StartDate = update.StartDate
	}
	s.students[id] = st
	return &st, nil
}

func newStudentRepoStub() *studentRepoStub {
	return &studentRepoStub{students: map[string]models.Student{
		"stu-1": {ID: "stu-1", StudentName: "Ana Lopez", Location: models.LocationKaty, PaymentStatus: models.PaymentPending},
		"stu-2": {ID: "stu-2", StudentName: "Leo Diaz", Location: models.LocationSugarLand, PaymentStatus: models.PaymentPaid},
	}}
}

func TestStudentServiceList(t *testing.T) {
	repo := newStudentRepoStub()
	svc := NewStudentService(repo, nil, nil)

	students, page, err := svc.List(context.Background(), dto.StudentListQuery{PaymentStatus: "PAID", SortBy: "studentName"})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, 50, page.PageSize)
	assert.Equal(t, "studentName", repo.lastFilter.SortBy)

	_, _, err = svc.List(context.Background(), dto.StudentListQuery{Location: "HOUSTON"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestStudentServiceGet(t *testing.T) {
	svc := NewStudentService(newStudentRepoStub(), nil, nil)
	student, err := svc.Get(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", student.StudentName)

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestStudentServiceUpdate(t *testing.T) {
	repo := newStudentRepoStub()
	svc := NewStudentService(repo, nil, nil)
	paid := "PAID"
	start := "2025-09-02"

	student, err := svc.Update(context.Background(), "stu-1", dto.UpdateStudentRequest{PaymentStatus: &paid, StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, student.PaymentStatus)
	assert.Equal(t, time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), *student.StartDate)
}

func TestStudentServiceUpdateRejects(t *testing.T) {
	repo := newStudentRepoStub()
	svc := NewStudentService(repo, nil, nil)

	age := 18
	_, err := svc.Update(context.Background(), "stu-1", dto.UpdateStudentRequest{Age: &age})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	bad := "next tuesday"
	_, err = svc.Update(context.Background(), "stu-1", dto.UpdateStudentRequest{StartDate: &bad})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidStartDate))

	_, err = svc.Update(context.Background(), "stu-1", dto.UpdateStudentRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	name := "Ana"
	_, err = svc.Update(context.Background(), "missing", dto.UpdateStudentRequest{StudentName: &name})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	repo.err = errors.New("db down")
	_, err = svc.Update(context.Background(), "stu-1", dto.UpdateStudentRequest{StudentName: &name})
	require.Error(t, err)
	assert.Equal(t, "Failed to update student", appErrors.FromError(err).Message)
}

func TestStudentServiceUpdateTrimsBeforeValidating(t *testing.T) {
	repo := newStudentRepoStub()
	svc := NewStudentService(repo, nil, nil)

	blank := "   "
	_, err := svc.Update(context.Background(), "stu-1", dto.UpdateStudentRequest{StudentName: &blank})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Nil(t, repo.lastUpdate.StudentName, "blank name never reaches the store")

	padded := "  Ana Lopez "
	email := " maria@example.com "
	_, err = svc.Update(context.Background(), "stu-1", dto.UpdateStudentRequest{StudentName: &padded, Email: &email})
	require.NoError(t, err)
	require.NotNil(t, repo.lastUpdate.StudentName)
	assert.Equal(t, "Ana Lopez", *repo.lastUpdate.StudentName)
	assert.Equal(t, "maria@example.com", *repo.lastUpdate.Email)
}
