package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	"github.com/bailakids/registration-api/internal/service"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type studentServiceMock struct {
	query  dto.StudentListQuery
	update dto.UpdateStudentRequest
	err    error
}

func (m *studentServiceMock) List(ctx context.Context, query dto.StudentListQuery) ([]models.Student, *models.Pagination, error) {
	m.query = query
	return []models.Student{{ID: "stu-1"}}, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 1}, nil
}

func (m *studentServiceMock) Get(ctx context.Context, id string) (*models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Student{ID: id}, nil
}

func (m *studentServiceMock) Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.Student, error) {
	m.update = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Student{ID: id, PaymentStatus: models.PaymentPaid}, nil
}

type exporterMock struct {
	format string
	paid   bool
}

func (m *exporterMock) Export(ctx context.Context, format string, paidOnly bool) (*service.RosterFile, error) {
	m.format, m.paid = format, paidOnly
	return &service.RosterFile{Filename: "paid-students-20250901.csv", ContentType: "text/csv", Data: []byte("Student\n")}, nil
}

func TestStudentHandlerList(t *testing.T) {
	svc := &studentServiceMock{}
	h := NewStudentHandler(svc, &exporterMock{})
	c, w := newContext(http.MethodGet, "/api/admin/students?paymentStatus=PAID&sortBy=studentName&page=2", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PAID", svc.query.PaymentStatus)
	assert.Equal(t, 2, svc.query.Page)
	body := decode(t, w)
	assert.NotNil(t, body["pagination"])
}

func TestStudentHandlerUpdate(t *testing.T) {
	svc := &studentServiceMock{}
	h := NewStudentHandler(svc, &exporterMock{})
	c, w := newContext(http.MethodPut, "/api/admin/students/stu-1", map[string]string{"paymentStatus": "PAID"})
	c.Params = gin.Params{{Key: "id", Value: "stu-1"}}

	h.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.update.PaymentStatus)
	assert.Equal(t, "PAID", *svc.update.PaymentStatus)
}

func TestStudentHandlerUpdateFailure(t *testing.T) {
	h := NewStudentHandler(&studentServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")}, &exporterMock{})
	c, w := newContext(http.MethodPut, "/api/admin/students/missing", map[string]string{"studentName": "Ana"})
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Update(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, "student not found", body["error"].(map[string]interface{})["message"])
}

func TestStudentHandlerExport(t *testing.T) {
	exporter := &exporterMock{}
	h := NewStudentHandler(&studentServiceMock{}, exporter)
	c, w := newContext(http.MethodGet, "/api/admin/students/export?format=csv&paid=true", nil)

	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, exporter.paid)
	assert.Equal(t, "csv", exporter.format)
	assert.Equal(t, "attachment; filename=paid-students-20250901.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Student\n", w.Body.String())

	c, w = newContext(http.MethodGet, "/api/admin/students/export?paid=maybe", nil)
	h.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
