package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
	"github.com/bailakids/registration-api/pkg/middleware/requestid"
	"github.com/bailakids/registration-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// AuthHandler exchanges the studio administrator's credentials for an access token.
type AuthHandler struct {
	service authService
	logger  *zap.Logger
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(svc authService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{service: svc, logger: logger}
}

// Login godoc
// @Summary Authenticate the administrator
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email and password are required"))
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, appErrors.ErrInvalidCredentials) {
			h.logger.Warn("admin login rejected",
				zap.String("email", req.Email),
				zap.String("client_ip", c.ClientIP()),
				zap.String("request_id", requestid.Value(c)),
			)
		}
		response.Error(c, err)
		return
	}
	h.logger.Info("admin login", zap.String("email", token.Admin.Email), zap.String("client_ip", c.ClientIP()))
	response.JSON(c, http.StatusOK, token, nil)
}
