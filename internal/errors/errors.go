// Package errors defines the stable error codes clg reports to callers.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ChangeRequestInvalid indicates a malformed change request (e.g. missing description)
	ChangeRequestInvalid ErrorCode = "CHANGE_REQUEST_INVALID"
	// SnapshotInvalid indicates an extraction snapshot that could not be decoded
	SnapshotInvalid ErrorCode = "SNAPSHOT_INVALID"
	// SnapshotNotFound indicates the snapshot file does not exist
	SnapshotNotFound ErrorCode = "SNAPSHOT_NOT_FOUND"
	// WeightsInvalid indicates a connector weights file that could not be parsed
	WeightsInvalid ErrorCode = "WEIGHTS_INVALID"
	// RunNotFound indicates a stored analysis run does not exist
	RunNotFound ErrorCode = "RUN_NOT_FOUND"
	// StorageUnavailable indicates the run store could not be opened
	StorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	// ExportFailed indicates a graph export could not be written
	ExportFailed ErrorCode = "EXPORT_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// ClgError represents a clg error with a stable code and optional details
type ClgError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new ClgError
func New(code ErrorCode, message string) *ClgError {
	return &ClgError{Code: code, Message: message}
}

// Newf creates a new ClgError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ClgError {
	return &ClgError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new ClgError wrapping an underlying cause
func Wrap(code ErrorCode, message string, cause error) *ClgError {
	return &ClgError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *ClgError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ClgError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *ClgError) WithDetails(details interface{}) *ClgError {
	e.Details = details
	return e
}

// CodeOf returns the error code of err, or InternalError for foreign errors.
func CodeOf(err error) ErrorCode {
	var ce *ClgError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
