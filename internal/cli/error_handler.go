package cli

import (
	stderrors "errors"
	"fmt"

	"discipline-dashboard/internal/config"
	"discipline-dashboard/internal/errors"
	"discipline-dashboard/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	if isKnownError(err) {
		return fmt.Errorf("%s", userMessage(err))
	}
	return err
}

// IsValidationError reports whether err holds field errors or a validation
// AppError.
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// ExitCode maps err to the process exit status: 0 on success, 2 when the user
// can fix the input or the configuration, 1 otherwise.
func (eh *ErrorHandler) ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cfgErr *config.ConfigError
	if eh.IsValidationError(err) || stderrors.As(err, &cfgErr) || !errors.ShouldLogError(err) {
		return 2
	}
	return 1
}

func isKnownError(err error) bool {
	if _, ok := validation.AsValidationError(err); ok {
		return true
	}
	if _, ok := errors.AsAppError(err); ok {
		return true
	}
	var cfgErr *config.ConfigError
	return stderrors.As(err, &cfgErr)
}

// userMessage picks the most specific message: field errors first, then the
// application error's user message.
func userMessage(err error) string {
	if validationErr, ok := validation.AsValidationError(err); ok {
		return validationErr.GetUserFriendlyMessage()
	}
	return errors.GetUserMessage(err)
}
