package validation

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"discipline-dashboard/internal/config"
	"discipline-dashboard/internal/domain"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string length in characters is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTaskTextLength checks if a task text length is within configured limits
func (v *Validator) IsValidTaskTextLength(text string) bool {
	return v.IsValidStringLength(text, 1, v.getTaskTextMaxLength())
}

// HasControlCharacters reports whether s contains newlines, tabs or other control characters.
// Task texts are single checklist lines, so these are rejected.
func (v *Validator) HasControlCharacters(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// IsValidSessionMinutes checks if a session length is positive and within the configured maximum
func (v *Validator) IsValidSessionMinutes(minutes int) bool {
	return minutes > 0 && minutes <= v.getMaxSessionMinutes()
}

// IsValidISOWeek checks if a week number can occur in an ISO calendar
func (v *Validator) IsValidISOWeek(week int) bool {
	return week >= 1 && week <= 53
}

// ParseDate parses a log date, returning false when it is not a YYYY-MM-DD calendar date
func (v *Validator) ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// MaxTaskTextLength returns the configured maximum task text length
func (v *Validator) MaxTaskTextLength() int {
	return v.getTaskTextMaxLength()
}

// MaxSessionMinutes returns the configured maximum session length
func (v *Validator) MaxSessionMinutes() int {
	return v.getMaxSessionMinutes()
}

// getTaskTextMaxLength returns configured maximum task text length or default
func (v *Validator) getTaskTextMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TaskTextMaxLength
	}
	return 255 // Default maximum
}

// getMaxSessionMinutes returns configured maximum session minutes or default
func (v *Validator) getMaxSessionMinutes() int {
	if v.config != nil {
		return v.config.Validation.MaxSessionMinutes
	}
	return 24 * 60 // Default maximum
}
