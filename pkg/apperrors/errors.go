package apperrors

import (
	"errors"
	"fmt"
)

// AppError represents an application-level error with a code and optional cause
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err (or anything it wraps) is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Error codes
const (
	ErrCodeSessionNotFound = "SESSION_NOT_FOUND"
	ErrCodeSessionClosed   = "SESSION_CLOSED"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidArgs     = "INVALID_ARGUMENTS"
	ErrCodeToolNotFound    = "TOOL_NOT_FOUND"
	ErrCodeSymbolNotFound  = "SYMBOL_NOT_FOUND"
	ErrCodeResourceEncode  = "RESOURCE_ENCODE_FAILED"
	ErrCodeLLMFailed       = "LLM_CALL_FAILED"
	ErrCodeInternal        = "INTERNAL"
)
