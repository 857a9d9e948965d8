package sqlite

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []interface{}
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}

	if len(dest) != len(ts.data) {
		return errors.New("mismatch in number of destinations")
	}

	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = ts.data[i].(int64)
		case *int:
			*v = ts.data[i].(int)
		case *sql.NullString:
			*v = ts.data[i].(sql.NullString)
		case *string:
			*v = ts.data[i].(string)
		}
	}

	return nil
}

// TestRows implements the Rows interface over a slice of scanners
type TestRows struct {
	scanners []*TestScanner
	index    int
	err      error
}

func (tr *TestRows) Next() bool {
	if tr.index >= len(tr.scanners) {
		return false
	}
	tr.index++
	return true
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	return tr.scanners[tr.index-1].Scan(dest...)
}

func (tr *TestRows) Err() error {
	return tr.err
}

func sessionData(id int64, minutes int, recordedAt string) []interface{} {
	return []interface{}{
		id,
		"session",
		2024,
		10,
		"2024-03-05",
		sql.NullString{String: "14:30:00", Valid: true},
		minutes,
		recordedAt,
	}
}

func TestScanSession(t *testing.T) {
	row, err := ScanSession(&TestScanner{data: sessionData(7, 45, "2024-03-05T14:30:00Z")})
	require.NoError(t, err)

	assert.Equal(t, int64(7), row.ID)
	assert.Equal(t, 2024, row.ISOYear)
	assert.Equal(t, 10, row.ISOWeek)
	assert.Equal(t, "14:30:00", row.WallClock.String)
	assert.Equal(t, 45, row.DurationMinutes)
	assert.True(t, row.RecordedAt.Equal(time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)))
}

func TestScanSession_Errors(t *testing.T) {
	_, err := ScanSession(&TestScanner{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = ScanSession(&TestScanner{data: sessionData(1, 45, "yesterday")})
	assert.Error(t, err)
}

func TestScanSessions(t *testing.T) {
	rows := &TestRows{scanners: []*TestScanner{
		{data: sessionData(1, 45, "2024-03-05T14:30:00Z")},
		{data: sessionData(2, 90, "2024-03-05T16:30:00Z")},
	}}

	sessions, err := ScanSessions(rows)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 90, sessions[1].DurationMinutes)

	_, err = ScanSessions(&TestRows{err: errors.New("iteration failed")})
	assert.EqualError(t, err, "iteration failed")
}
