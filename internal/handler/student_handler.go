package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	"github.com/bailakids/registration-api/internal/service"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
	"github.com/bailakids/registration-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, query dto.StudentListQuery) ([]models.Student, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.Student, error)
}

type rosterExporter interface {
	Export(ctx context.Context, format string, paidOnly bool) (*service.RosterFile, error)
}

// StudentHandler backs the admin student table.
type StudentHandler struct {
	students studentService
	exporter rosterExporter
}

// NewStudentHandler builds a StudentHandler.
func NewStudentHandler(students studentService, exporter rosterExporter) *StudentHandler {
	return &StudentHandler{students: students, exporter: exporter}
}

// List godoc
// @Summary List students
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name, guardian or email"
// @Param location query string false "KATY or SUGARLAND"
// @Param paymentStatus query string false "PENDING, PAID or FAILED"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "studentName, parentName, startDate or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /admin/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var query dto.StudentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	students, pagination, err := h.students.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get a student
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Update godoc
// @Summary Edit a student from the admin table
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.UpdateStudentRequest true "Changed fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Export godoc
// @Summary Download the student roster
// @Tags Admin
// @Security BearerAuth
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param paid query bool false "Only students with payment status PAID"
// @Success 200 {file} file
// @Router /admin/students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	paidOnly := false
	if raw := c.Query("paid"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "paid must be true or false"))
			return
		}
		paidOnly = parsed
	}
	file, err := h.exporter.Export(c.Request.Context(), c.Query("format"), paidOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
