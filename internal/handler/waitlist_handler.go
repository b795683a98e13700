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

type waitlistService interface {
	Join(ctx context.Context, req dto.WaitlistRequest) (*models.WaitingListEntry, error)
	List(ctx context.Context, location string) ([]models.WaitingListEntry, error)
}

// WaitlistHandler exposes the waiting list.
type WaitlistHandler struct {
	service waitlistService
}

// NewWaitlistHandler builds a WaitlistHandler.
func NewWaitlistHandler(service waitlistService) *WaitlistHandler {
	return &WaitlistHandler{service: service}
}

// Join godoc
// @Summary Join the waiting list for a sold-out class day
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param payload body dto.WaitlistRequest true "Waiting list entry"
// @Success 200 {object} response.Result
// @Failure 400 {object} response.Result
// @Router /waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	var req dto.WaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing fields"))
		return
	}
	if _, err := h.service.Join(c.Request.Context(), req); err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c)
}

// List godoc
// @Summary List waiting list entries
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param location query string false "KATY or SUGARLAND"
// @Success 200 {object} response.Envelope
// @Router /admin/waitlist [get]
func (h *WaitlistHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.Query("location"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
