package errors

import (
	"fmt"
	"log/slog"
	"sort"
)

// ErrorType classifies an AppError. The classification decides the message a
// user sees and whether the failure is logged as an error or a warning.
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeIO
	ErrorTypeMalformedRow
	ErrorTypeDatabase
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypeNotFound
)

var typeNames = map[ErrorType]string{
	ErrorTypeValidation:   "validation",
	ErrorTypeIO:           "io",
	ErrorTypeMalformedRow: "malformed_row",
	ErrorTypeDatabase:     "database",
	ErrorTypeInvalidInput: "invalid_input",
	ErrorTypeTimeout:      "timeout",
	ErrorTypeNotFound:     "not_found",
}

func (et ErrorType) String() string {
	if name, ok := typeNames[et]; ok {
		return name
	}
	return "unknown"
}

// AppError is the error every layer below the CLI returns. Context holds the
// values the error was built from and is emitted when the error is logged.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	msg := e.Type.String() + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same type and code, so sentinel
// AppErrors work with errors.Is.
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	return ok && other.Type == e.Type && other.Code == e.Code
}

// IsType reports whether e is of type t
func (e *AppError) IsType(t ErrorType) bool {
	return e.Type == t
}

// LogValue renders the error as a slog group: type, code, message, the
// context keys in sorted order and the cause.
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", e.Type.String()),
		slog.String("code", e.Code),
		slog.String("msg", e.Message),
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, e.Context[k]))
	}

	if e.Cause != nil {
		attrs = append(attrs, slog.String("cause", e.Cause.Error()))
	}
	return slog.GroupValue(attrs...)
}
