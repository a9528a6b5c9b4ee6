package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation           ErrorType = "validation"
	ErrorTypeInputNotFound        ErrorType = "input_not_found"
	ErrorTypeUnsupportedExtension ErrorType = "unsupported_extension"
	ErrorTypeArchiveUnreadable    ErrorType = "archive_unreadable"
	ErrorTypeArchiveTooLarge      ErrorType = "archive_too_large"
	ErrorTypeMemberCorrupt        ErrorType = "member_corrupt"
	ErrorTypeMemberEncrypted      ErrorType = "member_encrypted"
	ErrorTypeDocumentUnreadable   ErrorType = "document_unreadable"
	ErrorTypeNetwork              ErrorType = "network"
	ErrorTypeTimeout              ErrorType = "timeout"
	ErrorTypeInternal             ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewInputNotFoundError creates an error for a missing input path
func NewInputNotFoundError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInputNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Cause:      cause,
	}
}

// NewUnsupportedExtensionError creates an error for a rejected document type
func NewUnsupportedExtensionError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnsupportedExtension,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewArchiveUnreadableError creates an error for a container-level open failure
func NewArchiveUnreadableError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeArchiveUnreadable,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewArchiveTooLargeError creates an error for an oversized container
func NewArchiveTooLargeError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeArchiveTooLarge,
		Message:    message,
		StatusCode: http.StatusRequestEntityTooLarge,
		Cause:      cause,
	}
}

// NewMemberCorruptError creates an error for a checksum/read failure on one entry
func NewMemberCorruptError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeMemberCorrupt,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewMemberEncryptedError creates an error for a missing or wrong archive password
func NewMemberEncryptedError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeMemberEncrypted,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewDocumentUnreadableError creates an error for a document the parser rejected
func NewDocumentUnreadableError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDocumentUnreadable,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
