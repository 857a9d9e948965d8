package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name     string
		err      *AppError
		errType  ErrorType
		code     string
		message  string
		context  map[string]interface{}
		hasCause bool
	}{
		{
			name:     "validation",
			err:      NewValidationError("validation failed", cause),
			errType:  ErrorTypeValidation,
			code:     "VALIDATION_FAILED",
			message:  "validation failed",
			context:  map[string]interface{}{},
			hasCause: true,
		},
		{
			name:     "io",
			err:      NewIOError("read task file", "/tmp/tasks.json", os.ErrPermission),
			errType:  ErrorTypeIO,
			code:     "IO_ERROR",
			message:  "read task file failed: /tmp/tasks.json",
			context:  map[string]interface{}{"operation": "read task file", "path": "/tmp/tasks.json"},
			hasCause: true,
		},
		{
			name:    "malformed row",
			err:     NewMalformedRowError([]string{"2024", "bad", "row"}, "expected 4 columns, got 3"),
			errType: ErrorTypeMalformedRow,
			code:    "MALFORMED_ROW",
			message: "malformed log row: expected 4 columns, got 3",
			context: map[string]interface{}{
				"row":    []string{"2024", "bad", "row"},
				"reason": "expected 4 columns, got 3",
			},
		},
		{
			name:     "database",
			err:      NewDatabaseError("append session", cause),
			errType:  ErrorTypeDatabase,
			code:     "DATABASE_ERROR",
			message:  "database operation failed: append session",
			context:  map[string]interface{}{"operation": "append session"},
			hasCause: true,
		},
		{
			name:    "invalid input",
			err:     NewInvalidInputError("minutes", 0, "must be positive"),
			errType: ErrorTypeInvalidInput,
			code:    "INVALID_INPUT",
			message: "invalid input for minutes: must be positive",
			context: map[string]interface{}{"field": "minutes", "value": 0, "reason": "must be positive"},
		},
		{
			name:    "timeout",
			err:     NewTimeoutError("record session", "5s"),
			errType: ErrorTypeTimeout,
			code:    "TIMEOUT",
			message: "operation timed out: record session",
			context: map[string]interface{}{"operation": "record session", "timeout": "5s"},
		},
		{
			name:    "not found",
			err:     NewNotFoundError("task", 7),
			errType: ErrorTypeNotFound,
			code:    "NOT_FOUND",
			message: "task not found: 7",
			context: map[string]interface{}{"resource": "task", "id": 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, tt.err.Type)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Message)
			assert.Equal(t, tt.context, tt.err.Context)
			if tt.hasCause {
				assert.Error(t, tt.err.Unwrap())
			} else {
				assert.NoError(t, tt.err.Unwrap())
			}
		})
	}
}

func TestNewIOError_UnwrapsToCause(t *testing.T) {
	err := NewIOError("read task file", "/tmp/tasks.json", os.ErrPermission)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestAsAppError(t *testing.T) {
	appErr := NewNotFoundError("task", 2)

	found, ok := AsAppError(fmt.Errorf("remove task: %w", appErr))
	require.True(t, ok)
	assert.Same(t, appErr, found)

	found, ok = AsAppError(errors.New("regular error"))
	assert.False(t, ok)
	assert.Nil(t, found)

	_, ok = AsAppError(nil)
	assert.False(t, ok)
}

func TestIsErrorType(t *testing.T) {
	ioErr := NewIOError("write", "x", nil)

	assert.True(t, IsErrorType(ioErr, ErrorTypeIO))
	assert.True(t, IsErrorType(fmt.Errorf("wrapped: %w", ioErr), ErrorTypeIO))
	assert.False(t, IsErrorType(ioErr, ErrorTypeDatabase))
	assert.False(t, IsErrorType(errors.New("regular error"), ErrorTypeIO))
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation", NewValidationError("invalid input", nil), "invalid input"},
		{"io with cause", NewIOError("read task file", "tasks.json", errors.New("unexpected end of JSON input")),
			"read task file failed: tasks.json (unexpected end of JSON input)"},
		{"io without cause", NewIOError("read task file", "tasks.json", nil), "read task file failed: tasks.json"},
		{"malformed row", NewMalformedRowError([]string{"x"}, "too short"), "malformed log row: too short"},
		{"not found", NewNotFoundError("task", 9), "task not found: 9"},
		{"database", NewDatabaseError("query", errors.New("timeout")), "A database error occurred. Please try again."},
		{"timeout", NewTimeoutError("query", "5s"), "The operation timed out. Please try again."},
		{"unknown type", &AppError{Type: ErrorType(99), Message: "x"}, "An unexpected error occurred. Please try again."},
		{"regular", errors.New("regular error"), "regular error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetUserMessage(tt.err))
		})
	}
}

func TestShouldLogError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"validation", NewValidationError("invalid input", nil), false},
		{"invalid input", NewInvalidInputError("minutes", -1, "must be positive"), false},
		{"not found", NewNotFoundError("task", 4), false},
		{"wrapped user error", fmt.Errorf("add task: %w", NewValidationError("x", nil)), false},
		{"io", NewIOError("append log row", "log.csv", errors.New("read-only")), true},
		{"malformed row", NewMalformedRowError(nil, "empty"), true},
		{"database", NewDatabaseError("query", errors.New("timeout")), true},
		{"timeout", NewTimeoutError("query", "5s"), true},
		{"regular", errors.New("regular error"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldLogError(tt.err))
		})
	}
}
