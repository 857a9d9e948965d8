package sqlite

import (
	"database/sql"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanSession scans a single session from a database row
func ScanSession(scanner Scanner) (*SessionRow, error) {
	row := &SessionRow{}
	var wallClock sql.NullString
	var recordedAt string

	err := scanner.Scan(
		&row.ID,
		&row.SessionID,
		&row.ISOYear,
		&row.ISOWeek,
		&row.Date,
		&wallClock,
		&row.DurationMinutes,
		&recordedAt,
	)
	if err != nil {
		return nil, err
	}

	row.WallClock = wallClock
	if recordedAt != "" {
		parsed, err := ParseTimeFromDB(recordedAt)
		if err != nil {
			return nil, err
		}
		row.RecordedAt = parsed
	}

	return row, nil
}

// ScanSessions scans multiple sessions from database rows
func ScanSessions(rows Rows) ([]*SessionRow, error) {
	var sessions []*SessionRow
	for rows.Next() {
		session, err := ScanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
