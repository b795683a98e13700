package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type authServiceMock struct {
	err error
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600, Admin: models.AdminInfo{Email: req.Email, Role: models.RoleAdmin}}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{}, nil)
	c, w := newContext(http.MethodPost, "/api/admin/login", map[string]string{"email": "owner@bailakids.com", "password": "pw"})

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "token", data["accessToken"])
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	h := NewAuthHandler(&authServiceMock{err: appErrors.ErrInvalidCredentials}, zap.New(core))
	c, w := newContext(http.MethodPost, "/api/admin/login", map[string]string{"email": "owner@bailakids.com", "password": "wrong"})

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "admin login rejected", entry.Message)
	assert.Equal(t, "owner@bailakids.com", entry.ContextMap()["email"])
}

func TestAuthHandlerLoginBadBody(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{}, nil)
	c, w := newContext(http.MethodPost, "/api/admin/login", "{")

	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "email and password are required", body["message"])
}
