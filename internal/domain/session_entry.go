package domain

import (
	"fmt"
	"strconv"
	"time"

	"discipline-dashboard/internal/errors"
)

const (
	// LogColumns is the column count of the canonical session log schema:
	// year,week,date,duration.
	LogColumns = 4

	// DateLayout is the ISO-8601 calendar date layout used in the log.
	DateLayout = "2006-01-02"

	// ClockLayout is the wall-clock layout kept alongside entries by backends that store it.
	ClockLayout = "15:04:05"
)

// SessionEntry is one completed Pomodoro session in the append-only log.
// Entries have no key; their identity is their position in the log.
type SessionEntry struct {
	ISOYear         int
	ISOWeek         int
	Date            string
	WallClockTime   string
	DurationMinutes int
	SessionID       string
}

// NewSessionEntry builds the log entry for a session of minutes completed at at.
func NewSessionEntry(at time.Time, minutes int) SessionEntry {
	week := WeekKeyOf(at)
	return SessionEntry{
		ISOYear:         week.Year,
		ISOWeek:         week.Week,
		Date:            at.Format(DateLayout),
		WallClockTime:   at.Format(ClockLayout),
		DurationMinutes: minutes,
	}
}

// Week returns the ISO week the entry is filed under.
func (e SessionEntry) Week() WeekKey {
	return WeekKey{Year: e.ISOYear, Week: e.ISOWeek}
}

// Row renders the entry in the canonical column order.
func (e SessionEntry) Row() LogRow {
	return LogRow{
		strconv.Itoa(e.ISOYear),
		strconv.Itoa(e.ISOWeek),
		e.Date,
		strconv.Itoa(e.DurationMinutes),
	}
}

// Duration returns the logged duration.
func (e SessionEntry) Duration() time.Duration {
	return time.Duration(e.DurationMinutes) * time.Minute
}

// LogRow is one raw row of the session log, as read from storage.
type LogRow []string

// InWeek reports whether the row's stored year and week equal k, compared as strings.
func (r LogRow) InWeek(k WeekKey) bool {
	if len(r) < 2 {
		return false
	}
	year, week := k.Strings()
	return r[0] == year && r[1] == week
}

// ParseLogRow converts a raw row into a SessionEntry. Rows with fewer than
// LogColumns columns or with non-numeric year, week or duration yield a
// malformed-row error. Extra trailing columns are ignored.
func ParseLogRow(row LogRow) (SessionEntry, error) {
	if len(row) < LogColumns {
		return SessionEntry{}, errors.NewMalformedRowError(row, fmt.Sprintf("expected %d columns, got %d", LogColumns, len(row)))
	}

	year, err := strconv.Atoi(row[0])
	if err != nil {
		return SessionEntry{}, errors.NewMalformedRowError(row, fmt.Sprintf("year %q is not a number", row[0]))
	}
	week, err := strconv.Atoi(row[1])
	if err != nil {
		return SessionEntry{}, errors.NewMalformedRowError(row, fmt.Sprintf("week %q is not a number", row[1]))
	}
	if week < 1 || week > 53 {
		return SessionEntry{}, errors.NewMalformedRowError(row, fmt.Sprintf("week %d out of range", week))
	}
	minutes, err := strconv.Atoi(row[LogColumns-1])
	if err != nil {
		return SessionEntry{}, errors.NewMalformedRowError(row, fmt.Sprintf("duration %q is not a number", row[LogColumns-1]))
	}

	return SessionEntry{
		ISOYear:         year,
		ISOWeek:         week,
		Date:            row[2],
		DurationMinutes: minutes,
	}, nil
}
