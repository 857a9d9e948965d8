package domain

import (
	"fmt"
	"strconv"
	"time"
)

// WeekKey identifies an ISO-8601 calendar week. Week 1 is the week that
// contains the year's first Thursday, so Year may differ from the calendar
// year around new year.
type WeekKey struct {
	Year int
	Week int
}

// WeekKeyOf returns the ISO week containing t.
func WeekKeyOf(t time.Time) WeekKey {
	year, week := t.ISOWeek()
	return WeekKey{Year: year, Week: week}
}

// Strings returns year and week in the exact form written to the session log.
func (k WeekKey) Strings() (string, string) {
	return strconv.Itoa(k.Year), strconv.Itoa(k.Week)
}

// String renders the key as 2024-W10.
func (k WeekKey) String() string {
	return fmt.Sprintf("%d-W%02d", k.Year, k.Week)
}

// Start returns the Monday (00:00 in loc) that opens the week.
func (k WeekKey) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	// January 4th is always in ISO week 1.
	jan4 := time.Date(k.Year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	firstMonday := jan4.AddDate(0, 0, -offset)
	return firstMonday.AddDate(0, 0, 7*(k.Week-1))
}

// Previous returns the ISO week before k.
func (k WeekKey) Previous() WeekKey {
	return WeekKeyOf(k.Start(time.UTC).AddDate(0, 0, -7))
}
