package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
	"github.com/bailakids/registration-api/pkg/response"
)

type enrollmentService interface {
	Roster(ctx context.Context, sectionID string) ([]models.EnrollmentDetail, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateEnrollmentStatusRequest) (*models.Enrollment, error)
}

// EnrollmentHandler exposes section rosters.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler builds an EnrollmentHandler.
func NewEnrollmentHandler(service enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// Roster godoc
// @Summary List enrollments of a section
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/sections/{id}/enrollments [get]
func (h *EnrollmentHandler) Roster(c *gin.Context) {
	roster, err := h.service.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// UpdateStatus godoc
// @Summary Cancel, waitlist or promote an enrollment
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body dto.UpdateEnrollmentStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/enrollments/{id}/status [put]
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateEnrollmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	enrollment, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}
