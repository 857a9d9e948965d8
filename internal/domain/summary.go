package domain

import (
	"fmt"

	"discipline-dashboard/internal/errors"
)

// SummaryMode selects which weekly total the dashboard headlines.
type SummaryMode string

const (
	SummaryModeCount   SummaryMode = "count"
	SummaryModeMinutes SummaryMode = "minutes"
)

// ParseSummaryMode validates a mode name.
func ParseSummaryMode(s string) (SummaryMode, error) {
	switch SummaryMode(s) {
	case SummaryModeCount, SummaryModeMinutes:
		return SummaryMode(s), nil
	default:
		return "", errors.NewInvalidInputError("summary mode", s, "must be 'count' or 'minutes'")
	}
}

// WeeklySummary is the aggregate of logged sessions for one ISO week.
// It is derived from a full log scan and never stored.
type WeeklySummary struct {
	Week    WeekKey
	Count   int
	Minutes int
}

// Add folds an entry into the summary.
func (s *WeeklySummary) Add(entry SessionEntry) {
	s.Count++
	s.Minutes += entry.DurationMinutes
}

// Total returns the aggregate selected by mode.
func (s WeeklySummary) Total(mode SummaryMode) int {
	if mode == SummaryModeMinutes {
		return s.Minutes
	}
	return s.Count
}

// Headline renders the one-line dashboard summary.
func (s WeeklySummary) Headline(mode SummaryMode) string {
	if mode == SummaryModeMinutes {
		return fmt.Sprintf("Minutes this week: %d", s.Minutes)
	}
	return fmt.Sprintf("Pomodoros this week: %d", s.Count)
}
