package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/bailakids/registration-api/internal/dto"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
	"github.com/bailakids/registration-api/pkg/response"
)

type registrationService interface {
	Register(ctx context.Context, payload dto.RegistrationPayload) (*dto.RegistrationResult, error)
}

type confirmationSender interface {
	SendConfirmation(ctx context.Context, req dto.ConfirmationRequest) error
}

// RegistrationHandler serves the parent-facing form submissions.
type RegistrationHandler struct {
	registrations registrationService
	notifications confirmationSender
}

// NewRegistrationHandler builds a RegistrationHandler.
func NewRegistrationHandler(registrations registrationService, notifications confirmationSender) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, notifications: notifications}
}

// Register godoc
// @Summary Submit a registration
// @Description Accepts either sectionIds or the legacy location/frequency/selectedDays/startDate fields.
// @Tags Registration
// @Accept json
// @Produce json
// @Param payload body dto.RegistrationPayload true "Registration"
// @Success 200 {object} response.Result
// @Failure 400 {object} response.Result
// @Failure 500 {object} response.Result
// @Router /register [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	var payload dto.RegistrationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Failure(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid request body"))
		return
	}
	if _, err := h.registrations.Register(c.Request.Context(), payload); err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c)
}

// SendConfirmation godoc
// @Summary Send the confirmation emails for a completed registration
// @Tags Registration
// @Accept json
// @Produce json
// @Param payload body dto.ConfirmationRequest true "Registration summary"
// @Success 200 {object} response.Result
// @Failure 400 {object} response.Result
// @Failure 502 {object} response.Result
// @Router /send-confirmation [post]
func (h *RegistrationHandler) SendConfirmation(c *gin.Context) {
	var req dto.ConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid request body"))
		return
	}
	if err := h.notifications.SendConfirmation(c.Request.Context(), req); err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c)
}
