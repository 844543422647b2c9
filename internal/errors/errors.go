package errors

import (
	"fmt"
	"net/http"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the single error shape the HTTP boundary knows how to render.
// Operational errors are expected failures whose message is safe to show to clients.
type AppError struct {
	StatusCode  int
	Code        string
	Message     string
	Operational bool
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status is "fail" for client errors and "error" for server errors.
func (e *AppError) Status() string {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return "fail"
	}
	return "error"
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// New creates an operational error with the given status.
func New(statusCode int, code, message string) *AppError {
	return &AppError{StatusCode: statusCode, Code: code, Message: message, Operational: true}
}

func Validation(message string) *AppError {
	return New(http.StatusBadRequest, CodeValidation, message)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, CodeForbidden, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeNotFound, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, CodeConflict, message)
}

// Internal is still operational: its message is written for clients, the cause is not shown.
func Internal(message string, cause error) *AppError {
	e := New(http.StatusInternalServerError, CodeInternal, message)
	e.Err = cause
	return e
}

// Wrap attaches a cause to an operational error.
func (e *AppError) Wrap(cause error) *AppError {
	c := *e
	c.Err = cause
	return &c
}
