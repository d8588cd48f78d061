package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to clients. The three forbidden variants are kept
// distinct so callers can tell a hidden record from a denied mutation.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUnauthorizedAccess = "UNAUTHORIZED_ACCESS"
	CodeUnauthorizedUpdate = "UNAUTHORIZED_UPDATE"
	CodeUnauthorizedDelete = "UNAUTHORIZED_DELETE"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeConflict           = "CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

// NewUnauthorizedAccess marks a record that exists but is outside the
// caller's visibility.
func NewUnauthorizedAccess(resource string) error {
	return NewDomainError(CodeUnauthorizedAccess, fmt.Sprintf("unauthorized access to %s", resource), http.StatusForbidden, nil)
}

func NewUnauthorizedUpdate(resource string) error {
	return NewDomainError(CodeUnauthorizedUpdate, fmt.Sprintf("unauthorized update of %s", resource), http.StatusForbidden, nil)
}

func NewUnauthorizedDelete(resource string) error {
	return NewDomainError(CodeUnauthorizedDelete, fmt.Sprintf("unauthorized delete of %s", resource), http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}

// CodeOf extracts the error code, or empty for non-domain errors.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
