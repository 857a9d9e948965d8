package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrorType names the rule a field broke
type ValidationErrorType string

const (
	ErrorTypeRequired         ValidationErrorType = "required"
	ErrorTypeInvalidFormat    ValidationErrorType = "invalid_format"
	ErrorTypeInvalidLength    ValidationErrorType = "invalid_length"
	ErrorTypeInvalidValue     ValidationErrorType = "invalid_value"
	ErrorTypeInvalidRange     ValidationErrorType = "invalid_range"
	ErrorTypeInvalidCharacter ValidationErrorType = "invalid_character"
)

// FieldError is one broken rule. Message is written for the user and is
// shown as is.
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   interface{}
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", fe.Field, fe.Message)
}

// ValidationError collects every FieldError found while checking one input,
// so the user sees all problems at once.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError returns an empty collection
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make([]FieldError, 0)}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation error"
	case 1:
		return ve.Errors[0].Error()
	}
	parts := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		parts[i] = ve.Errors[i].Error()
	}
	return "multiple validation errors: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err's chain holds a ValidationError
func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}

// AsValidationError finds a ValidationError in err's chain
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// Merge appends the field errors of other. Errors that are not a
// ValidationError are ignored.
func (ve *ValidationError) Merge(other error) {
	if found, ok := AsValidationError(other); ok {
		ve.Errors = append(ve.Errors, found.Errors...)
	}
}

func (ve *ValidationError) add(field string, t ValidationErrorType, value interface{}, format string, args ...interface{}) {
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    t,
		Message: fmt.Sprintf(format, args...),
		Value:   value,
	})
}

func (ve *ValidationError) AddRequiredError(field string) {
	ve.add(field, ErrorTypeRequired, nil, "%s is required", field)
}

func (ve *ValidationError) AddInvalidFormatError(field string, value interface{}, expectedFormat string) {
	ve.add(field, ErrorTypeInvalidFormat, value, "%s has invalid format, expected: %s", field, expectedFormat)
}

// AddInvalidLengthError records a length outside [min, max]. A zero bound is
// left out of the message.
func (ve *ValidationError) AddInvalidLengthError(field string, value interface{}, min, max int) {
	switch {
	case min > 0 && max > 0:
		ve.add(field, ErrorTypeInvalidLength, value, "%s must be between %d and %d characters long", field, min, max)
	case min > 0:
		ve.add(field, ErrorTypeInvalidLength, value, "%s must be at least %d characters long", field, min)
	case max > 0:
		ve.add(field, ErrorTypeInvalidLength, value, "%s must be at most %d characters long", field, max)
	default:
		ve.add(field, ErrorTypeInvalidLength, value, "%s has invalid length", field)
	}
}

func (ve *ValidationError) AddInvalidValueError(field string, value interface{}, reason string) {
	ve.add(field, ErrorTypeInvalidValue, value, "%s has invalid value: %s", field, reason)
}

func (ve *ValidationError) AddInvalidRangeError(field string, value interface{}, reason string) {
	ve.add(field, ErrorTypeInvalidRange, value, "%s has invalid range: %s", field, reason)
}

func (ve *ValidationError) AddInvalidCharacterError(field string, value interface{}) {
	ve.add(field, ErrorTypeInvalidCharacter, value, "%s contains invalid characters", field)
}

// GetUserFriendlyMessage returns the single message, or a bulleted list when
// there are several.
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "Input validation failed"
	case 1:
		return ve.Errors[0].Message
	}
	var b strings.Builder
	b.WriteString("Multiple validation errors occurred:")
	for _, fe := range ve.Errors {
		b.WriteString("\n- ")
		b.WriteString(fe.Message)
	}
	return b.String()
}
