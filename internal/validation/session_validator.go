package validation

import (
	"fmt"

	"discipline-dashboard/internal/domain"
)

// SessionValidator provides validation for timer durations and log entries
type SessionValidator struct {
	validator *Validator
}

// NewSessionValidator creates a new session validator
func NewSessionValidator(v *Validator) *SessionValidator {
	if v == nil {
		v = NewValidator()
	}
	return &SessionValidator{
		validator: v,
	}
}

// ValidateMinutes validates a requested session length before the countdown starts
func (sv *SessionValidator) ValidateMinutes(minutes int) error {
	if !sv.validator.IsValidSessionMinutes(minutes) {
		validationError := NewValidationError()
		validationError.AddInvalidRangeError("duration", minutes,
			fmt.Sprintf("must be between 1 and %d minutes", sv.validator.MaxSessionMinutes()))
		return validationError
	}
	return nil
}

// ValidateEntry validates a log entry before it is appended. The date must
// fall inside the ISO week the entry is filed under.
func (sv *SessionValidator) ValidateEntry(entry domain.SessionEntry) error {
	validationError := NewValidationError()

	if !sv.validator.IsValidISOWeek(entry.ISOWeek) {
		validationError.AddInvalidRangeError("week", entry.ISOWeek, "must be between 1 and 53")
	}

	date, ok := sv.validator.ParseDate(entry.Date)
	if !ok {
		validationError.AddInvalidFormatError("date", entry.Date, domain.DateLayout)
	} else if domain.WeekKeyOf(date) != entry.Week() {
		validationError.AddInvalidValueError("date", entry.Date,
			fmt.Sprintf("does not fall in ISO week %s", entry.Week()))
	}

	// the maximum only limits what can be started
	if entry.DurationMinutes <= 0 {
		validationError.AddInvalidRangeError("duration", entry.DurationMinutes, "must be a positive number of minutes")
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}
