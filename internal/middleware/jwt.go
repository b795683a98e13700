package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
	"github.com/bailakids/registration-api/pkg/response"
)

// ContextUserKey holds the administrator's *models.JWTClaims on the gin context.
const ContextUserKey = "currentUser"

const bearerRealm = `Bearer realm="bailakids-admin"`

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT admits requests carrying "Authorization: Bearer <token>" that auth accepts.
// Rejections answer 401 with a WWW-Authenticate challenge so the admin app can
// send the user back to the login screen.
func JWT(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var claims *models.JWTClaims
			if claims, err = auth.ValidateToken(token); err == nil {
				c.Set(ContextUserKey, claims)
				c.Next()
				return
			}
		}
		if appErrors.FromError(err).Status == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", bearerRealm)
		}
		response.Error(c, err)
		c.Abort()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", appErrors.ErrUnauthorized
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return token, nil
}

// CurrentUser returns the claims attached by JWT, or nil on public routes.
func CurrentUser(c *gin.Context) *models.JWTClaims {
	v, _ := c.Get(ContextUserKey)
	claims, _ := v.(*models.JWTClaims)
	return claims
}
