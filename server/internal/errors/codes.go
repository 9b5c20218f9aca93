package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for recommendation operations.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotFound indicates the requested record does not exist.
	// Often a legitimate cold-start or empty-result state, not a failure.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeEmbeddingUnavailable indicates an upstream embedding is missing or malformed.
	ErrCodeEmbeddingUnavailable ErrorCode = "EMBEDDING_UNAVAILABLE"
	// ErrCodeStoreUnavailable indicates the store is unreachable. Retryable.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ErrCodeDimensionMismatch indicates a vector whose dimension does not match
	// the configured embedding dimension.
	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"
	// ErrCodeTimeout indicates the operation timed out. Retryable.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// EngineError represents a structured error for recommendation operations.
type EngineError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// GetCode returns the error code.
func (e *EngineError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *EngineError {
	return &EngineError{Code: ErrCodeInvalidArgument, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *EngineError {
	return &EngineError{Code: ErrCodeNotFound, Message: msg}
}

// EmbeddingUnavailable creates an embedding unavailable error.
func EmbeddingUnavailable(msg string) *EngineError {
	return &EngineError{Code: ErrCodeEmbeddingUnavailable, Message: msg}
}

// StoreUnavailable creates a store unavailable error.
func StoreUnavailable(msg string, cause error) *EngineError {
	return &EngineError{Code: ErrCodeStoreUnavailable, Message: msg, Cause: cause}
}

// DimensionMismatch creates a dimension mismatch error.
func DimensionMismatch(want, got int) *EngineError {
	return &EngineError{
		Code:    ErrCodeDimensionMismatch,
		Message: fmt.Sprintf("expected embedding dimension %d, got %d", want, got),
	}
}

// Timeout creates a timeout error.
func Timeout(msg string, cause error) *EngineError {
	return &EngineError{Code: ErrCodeTimeout, Message: msg, Cause: cause}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *EngineError {
	return &EngineError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if engErr, ok := err.(*EngineError); ok {
		return engErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an EngineError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if engErr, ok := err.(*EngineError); ok {
		return engErr.Code
	}
	return defaultCode
}
