package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the common shape for every domain error. Handlers map it to an
// HTTP status via StatusCode; Code is a stable machine-readable identifier.
type AppError struct {
	Message    string
	StatusCode int
	Code       string
	Err        error // underlying cause, if any
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

// NewValidation reports malformed or inconsistent input (400).
func NewValidation(message string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusBadRequest, Code: "VALIDATION_ERROR"}
}

// NewAuthentication reports missing or bad credentials (401).
func NewAuthentication(message string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusUnauthorized, Code: "AUTH_ERROR"}
}

// NewAuthorization reports an invalid or expired token (403).
func NewAuthorization(message string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusForbidden, Code: "AUTHORIZATION_ERROR"}
}

// NewNotFound reports a missing resource (404).
func NewNotFound(message string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusNotFound, Code: "NOT_FOUND"}
}

// NewConflict reports a duplicate unique field (409).
func NewConflict(message string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusConflict, Code: "RESOURCE_CONFLICT_ERROR"}
}

// NewCooldown reports a retry inside the verification cooldown window (429).
func NewCooldown(message string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusTooManyRequests, Code: "COOLDOWN_ERROR"}
}

// NewDatabase wraps an underlying store failure (500).
func NewDatabase(message string, err error) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusInternalServerError, Code: "DB_ERROR", Err: err}
}

// StatusOf returns the HTTP status for err, defaulting to 500 for error
// shapes the taxonomy does not recognize.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err is a 404-kind error.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.StatusCode == http.StatusNotFound
}

// IsCooldown reports whether err is the verification cooldown error.
func IsCooldown(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == "COOLDOWN_ERROR"
}
