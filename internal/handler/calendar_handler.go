package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/middleware"
	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
	"github.com/bailakids/registration-api/pkg/response"
)

type calendarService interface {
	Month(ctx context.Context, month string) (*models.CalendarMonth, error)
	CreateEvent(ctx context.Context, req dto.CreateCalendarEventRequest, actor *models.JWTClaims) (*models.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string, actor *models.JWTClaims) error
}

// CalendarHandler serves the admin calendar.
type CalendarHandler struct {
	service calendarService
	now     func() time.Time
}

// NewCalendarHandler builds a CalendarHandler.
func NewCalendarHandler(service calendarService) *CalendarHandler {
	return &CalendarHandler{service: service, now: time.Now}
}

// Month godoc
// @Summary Student start dates, class meetings and notes for a month
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Success 200 {object} response.Envelope
// @Router /admin/calendar [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		month = h.now().Format("2006-01")
	}
	view, err := h.service.Month(c.Request.Context(), month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// CreateEvent godoc
// @Summary Pin a note to a calendar date
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CreateCalendarEventRequest true "Event"
// @Success 201 {object} response.Envelope
// @Router /admin/calendar/events [post]
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	event, err := h.service.CreateEvent(c.Request.Context(), req, middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// DeleteEvent godoc
// @Summary Remove a calendar note
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/calendar/events/{id} [delete]
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	if err := h.service.DeleteEvent(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
