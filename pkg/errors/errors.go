package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrBadRequest            = errors.New("bad request")
	ErrConflict              = errors.New("resource already exists")
	ErrInternalServer        = errors.New("internal server error")
	ErrValidation            = errors.New("validation error")
	ErrMissingParameter      = errors.New("missing parameter")
	ErrPlanRestriction       = errors.New("not available on current plan")
	ErrQuotaExceeded         = errors.New("quota exceeded")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrStorageFailure        = errors.New("storage failure")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
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

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Err: ErrForbidden}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func Validation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Err: ErrValidation}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: err}
}

func MissingParameter(name string) *AppError {
	return &AppError{Code: "MISSING_PARAMETER", Message: name + " is required", Err: ErrMissingParameter}
}

func PlanRestriction(msg string) *AppError {
	return &AppError{Code: "PLAN_RESTRICTION", Message: msg, Err: ErrPlanRestriction}
}

func QuotaExceeded(msg string) *AppError {
	return &AppError{Code: "QUOTA_EXCEEDED", Message: msg, Err: ErrQuotaExceeded}
}

// InvalidOrExpiredToken never says which of the two happened.
func InvalidOrExpiredToken() *AppError {
	return &AppError{Code: "INVALID_TOKEN", Message: "invalid or expired link", Err: ErrInvalidOrExpiredToken}
}

// StorageFailure keeps the sentinel in the chain alongside the backend cause.
func StorageFailure(msg string, err error) *AppError {
	return &AppError{Code: "STORAGE_FAILURE", Message: msg, Err: &storageCause{cause: err}}
}

type storageCause struct {
	cause error
}

func (s *storageCause) Error() string {
	if s.cause == nil {
		return ErrStorageFailure.Error()
	}
	return fmt.Sprintf("%s: %v", ErrStorageFailure.Error(), s.cause)
}

func (s *storageCause) Unwrap() []error {
	if s.cause == nil {
		return []error{ErrStorageFailure}
	}
	return []error{ErrStorageFailure, s.cause}
}
