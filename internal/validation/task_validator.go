package validation

import (
	"discipline-dashboard/internal/domain"
)

// TaskValidator provides validation for checklist tasks
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator(v *Validator) *TaskValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TaskValidator{
		validator: v,
	}
}

// ValidateTaskText validates the text of a new or edited task
func (tv *TaskValidator) ValidateTaskText(text string) error {
	validationError := NewValidationError()

	// Trim whitespace
	trimmed := tv.validator.TrimAndValidateString(text)

	// Check if text is empty
	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("task_text")
		return validationError
	}

	// Check length constraints
	if !tv.validator.IsValidTaskTextLength(trimmed) {
		validationError.AddInvalidLengthError("task_text", trimmed, 1, tv.validator.MaxTaskTextLength())
	}

	// Task texts are rendered one per line
	if tv.validator.HasControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("task_text", trimmed)
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// ValidateTasks validates every task of a checklist about to be saved
func (tv *TaskValidator) ValidateTasks(tasks []domain.Task) error {
	validationError := NewValidationError()

	for _, task := range tasks {
		validationError.Merge(tv.ValidateTaskText(task.Text))
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// GetValidTaskText returns a cleaned task text if valid
func (tv *TaskValidator) GetValidTaskText(text string) (string, error) {
	if err := tv.ValidateTaskText(text); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(text), nil
}
