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

type configurationService interface {
	List(ctx context.Context) ([]dto.ConfigurationItem, error)
	Get(ctx context.Context, key string) (*dto.ConfigurationItem, error)
	Update(ctx context.Context, key, value string, actor *models.JWTClaims) (*dto.ConfigurationItem, error)
}

// ConfigurationHandler exposes ACTIVE_SESSION and REGISTRATION_OPEN. Public reads pick up a
// change once the settings window of the serving process has elapsed.
type ConfigurationHandler struct {
	service        configurationService
	settingsWindow time.Duration
}

// NewConfigurationHandler builds a ConfigurationHandler. settingsWindow is reported back
// on updates as the delay before public endpoints observe the new value.
func NewConfigurationHandler(service configurationService, settingsWindow time.Duration) *ConfigurationHandler {
	return &ConfigurationHandler{service: service, settingsWindow: settingsWindow}
}

// List godoc
// @Summary List settings
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/config [get]
func (h *ConfigurationHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get a setting
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param key path string true "ACTIVE_SESSION or REGISTRATION_OPEN"
// @Success 200 {object} response.Envelope
// @Router /admin/config/{key} [get]
func (h *ConfigurationHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Update godoc
// @Summary Change a setting
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param key path string true "ACTIVE_SESSION or REGISTRATION_OPEN"
// @Param payload body dto.UpdateConfigurationRequest true "New value"
// @Success 200 {object} response.Envelope
// @Router /admin/config/{key} [put]
func (h *ConfigurationHandler) Update(c *gin.Context) {
	var req dto.UpdateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "value is required"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("key"), req.Value, middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil, map[string]interface{}{
		"appliesWithin": h.settingsWindow.String(),
	})
}
