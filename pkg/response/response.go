// Package response writes the two body shapes the API speaks: the parent-facing
// form contract {success, error} and the admin Envelope.
package response

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

// Envelope is the admin API body.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// Result is the sign-up form body.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

const publicInternalMessage = "Internal Server Error"

// JSON writes data in an Envelope. meta is optional and only the first map is used.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	body := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 {
		body.Meta = meta[0]
	}
	Raw(c, status, body)
}

// Created is JSON with 201.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error writes err as an Envelope error. The cause is kept on the gin context
// for the access log.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	record(c, err)
	Raw(c, appErr.Status, Envelope{Error: appErr})
}

// Raw writes body as is, for the public catalog endpoints whose shapes predate
// the Envelope.
func Raw(c *gin.Context, status int, body interface{}) {
	noStore(c)
	c.JSON(status, body)
}

// Success writes {"success": true}.
func Success(c *gin.Context) {
	Raw(c, http.StatusOK, Result{Success: true})
}

// Failure writes {"success": false, "error": msg}. Unclassified failures read
// "Internal Server Error"; the cause only reaches the log.
func Failure(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	msg := appErr.Message
	if appErr.Code == appErrors.ErrInternal.Code {
		msg = publicInternalMessage
	}
	record(c, err)
	Raw(c, appErr.Status, Result{Success: false, Error: msg})
}

// Attachment streams a generated file such as the roster export.
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	noStore(c)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, contentType, data)
}

// NoContent writes 204.
func NoContent(c *gin.Context) {
	noStore(c)
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}

func record(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
