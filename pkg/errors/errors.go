// Package errors holds the API's typed errors. Each carries a stable code, the
// HTTP status it maps to and a message safe to show a parent or administrator.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a coded API error. Field names the offending input when one applies.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is compares codes, so a copy with a tailored message still matches its template:
// errors.Is(Missing("email"), ErrMissingFields) is true.
func (e *Error) Is(target error) bool {
	var t *Error
	if e == nil || !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New defines an error template.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches cause to a coded error.
func Wrap(cause error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: cause}
}

// Internal hides a database or provider failure behind message. Handlers answer
// parents with a generic text; the cause is only logged.
func Internal(cause error, message string) *Error {
	return Wrap(cause, ErrInternal.Code, ErrInternal.Status, message)
}

var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrCacheMiss never reaches a client; CacheService treats it as "load instead".
	ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Registration outcomes. Messages are shown verbatim on the sign-up form.
var (
	ErrMissingFields           = New("MISSING_FIELDS", http.StatusBadRequest, "Missing required fields")
	ErrInvalidAge              = New("INVALID_AGE", http.StatusBadRequest, "Student age must be between 1 and 17")
	ErrLiabilityNotAccepted    = New("LIABILITY_NOT_ACCEPTED", http.StatusBadRequest, "Liability waiver must be accepted")
	ErrInvalidSectionSelection = New("INVALID_SECTION_SELECTION", http.StatusBadRequest, "Invalid section selection")
	ErrTooManySections         = New("TOO_MANY_SECTIONS", http.StatusBadRequest, "At most two sections may be selected")
	ErrDuplicateSection        = New("DUPLICATE_SECTION", http.StatusBadRequest, "The same section was selected twice")
	ErrInvalidStartDate        = New("INVALID_START_DATE", http.StatusBadRequest, "startDate must be an ISO date")
	ErrEmailDelivery           = New("EMAIL_DELIVERY_FAILED", http.StatusBadGateway, "Failed to send confirmation email")
)

// Missing reports an absent required field as MISSING_FIELDS ("<field> required").
func Missing(field string) *Error {
	e := Clone(ErrMissingFields, field+" required")
	e.Field = field
	return e
}

// Invalid reports a field whose value was rejected, as VALIDATION_ERROR.
func Invalid(field, message string) *Error {
	e := Clone(ErrValidation, message)
	e.Field = field
	return e
}

// FromError returns err's *Error, or wraps an unknown error as INTERNAL_ERROR.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err, ErrInternal.Message)
}

// Clone copies template, replacing its message when message is not empty.
// Templates are shared values and must never be mutated in place.
func Clone(template *Error, message string) *Error {
	if template == nil {
		return nil
	}
	c := *template
	if message != "" {
		c.Message = message
	}
	return &c
}

// Clonef is Clone with a formatted message.
func Clonef(template *Error, format string, args ...any) *Error {
	return Clone(template, fmt.Sprintf(format, args...))
}
