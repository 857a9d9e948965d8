package sqlite

import (
	"database/sql"
	"strconv"
	"time"

	"discipline-dashboard/internal/domain"
)

// ToDomainSessionEntry converts a sessions row into a domain entry
func ToDomainSessionEntry(row *SessionRow) domain.SessionEntry {
	return domain.SessionEntry{
		ISOYear:         row.ISOYear,
		ISOWeek:         row.ISOWeek,
		Date:            row.Date,
		WallClockTime:   row.WallClock.String,
		DurationMinutes: row.DurationMinutes,
		SessionID:       row.SessionID,
	}
}

// FromDomainSessionEntry converts a domain entry into a sessions row
func FromDomainSessionEntry(entry domain.SessionEntry, recordedAt time.Time) *SessionRow {
	return &SessionRow{
		SessionID:       entry.SessionID,
		ISOYear:         entry.ISOYear,
		ISOWeek:         entry.ISOWeek,
		Date:            entry.Date,
		WallClock:       sql.NullString{String: entry.WallClockTime, Valid: entry.WallClockTime != ""},
		DurationMinutes: entry.DurationMinutes,
		RecordedAt:      recordedAt,
	}
}

// ToLogRow renders a sessions row in the canonical year,week,date,duration order
func ToLogRow(row *SessionRow) domain.LogRow {
	return domain.LogRow{
		strconv.Itoa(row.ISOYear),
		strconv.Itoa(row.ISOWeek),
		row.Date,
		strconv.Itoa(row.DurationMinutes),
	}
}
