package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the application error carried from services up to the HTTP layer.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status the error maps to.
func (e *Error) StatusCode() int {
	return e.Code
}

func BadRequest(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Code: http.StatusForbidden, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Code: http.StatusNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Conflict(message string) *Error {
	return &Error{Code: http.StatusConflict, Message: message}
}

func Internal(err error) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// Code returns the HTTP status for any error, defaulting to 500.
func Code(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// Is reports whether err is an application error with the given status code.
func Is(err error, code int) bool {
	return Code(err) == code
}
