package sqlite

import (
	"database/sql"
	"time"
)

// SessionRow is one row of the sessions table
type SessionRow struct {
	ID              int64
	SessionID       string
	ISOYear         int
	ISOWeek         int
	Date            string
	WallClock       sql.NullString
	DurationMinutes int
	RecordedAt      time.Time
}
