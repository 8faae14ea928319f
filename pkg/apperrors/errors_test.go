package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidArgs, "bad arguments", nil)

	assert.NotNil(t, err)
	assert.Equal(t, ErrCodeInvalidArgs, err.Code)
	assert.Equal(t, "bad arguments", err.Message)
	assert.Nil(t, err.Cause)
}

func TestNew_WithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := New(ErrCodeInternal, "dispatch failed", cause)

	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeSessionNotFound, "no such session", nil)

	assert.Contains(t, err.Error(), ErrCodeSessionNotFound)
	assert.Contains(t, err.Error(), "no such session")
}

func TestAppError_Error_WithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := New(ErrCodeSessionNotFound, "no such session", cause)

	assert.Contains(t, err.Error(), "underlying error")
}

func TestHasCode(t *testing.T) {
	err := New(ErrCodeInvalidArgs, "bad arguments", nil)

	assert.True(t, HasCode(err, ErrCodeInvalidArgs))
	assert.False(t, HasCode(err, ErrCodeInternal))
	assert.False(t, HasCode(errors.New("plain"), ErrCodeInvalidArgs))
	assert.False(t, HasCode(nil, ErrCodeInvalidArgs))
}

func TestHasCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeSymbolNotFound, "unknown ticker", nil))

	assert.True(t, HasCode(err, ErrCodeSymbolNotFound))
}
