package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches two *Error values by code so clones of a predefined error still
// satisfy errors.Is against the original.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Business errors raised by the profile services.
var (
	ErrTeacherNotFound        = New("TEACHER_NOT_FOUND", http.StatusNotFound, "teacher not found")
	ErrStudentNotFound        = New("STUDENT_NOT_FOUND", http.StatusNotFound, "student not found")
	ErrUserNotFound           = New("USER_NOT_FOUND", http.StatusNotFound, "user not found")
	ErrProficiencyNotFound    = New("PROFICIENCY_NOT_FOUND", http.StatusNotFound, "teaching proficiency not found")
	ErrCharacteristicNotFound = New("CHARACTERISTIC_NOT_FOUND", http.StatusNotFound, "characteristic not found")
	ErrInvalidHourlyRates     = New("INVALID_HOURLY_RATES", http.StatusUnprocessableEntity, "hourly rates values cannot be negative or zero")
	ErrDuplicateUserRole      = New("DUPLICATE_USER_ROLE", http.StatusConflict, "user id is already attached to another teacher or student")
	ErrInvalidEmail           = New("INVALID_EMAIL", http.StatusBadRequest, "invalid email")
	ErrExportJobNotFound      = New("EXPORT_JOB_NOT_FOUND", http.StatusNotFound, "export job not found")
	ErrExportNotReady         = New("EXPORT_NOT_READY", http.StatusConflict, "export is not ready")
	ErrInvalidDownloadToken   = New("INVALID_DOWNLOAD_TOKEN", http.StatusForbidden, "invalid or expired download token")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
