package domain

import (
	"testing"
	"time"

	"discipline-dashboard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionEntry(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)
	entry := NewSessionEntry(at, 90)

	assert.Equal(t, 2024, entry.ISOYear)
	assert.Equal(t, 10, entry.ISOWeek)
	assert.Equal(t, "2024-03-05", entry.Date)
	assert.Equal(t, "14:30:15", entry.WallClockTime)
	assert.Equal(t, 90, entry.DurationMinutes)
	assert.Equal(t, 90*time.Minute, entry.Duration())
	assert.Equal(t, WeekKey{2024, 10}, entry.Week())
}

func TestSessionEntry_Row(t *testing.T) {
	entry := SessionEntry{ISOYear: 2024, ISOWeek: 10, Date: "2024-03-04", WallClockTime: "09:00:00", DurationMinutes: 45}
	assert.Equal(t, LogRow{"2024", "10", "2024-03-04", "45"}, entry.Row())
}

func TestParseLogRow(t *testing.T) {
	tests := []struct {
		name      string
		row       LogRow
		expected  SessionEntry
		malformed bool
	}{
		{
			name:     "canonical row",
			row:      LogRow{"2024", "10", "2024-03-04", "45"},
			expected: SessionEntry{ISOYear: 2024, ISOWeek: 10, Date: "2024-03-04", DurationMinutes: 45},
		},
		{
			name:     "extra columns are ignored",
			row:      LogRow{"2024", "10", "2024-03-04", "90", "trailing"},
			expected: SessionEntry{ISOYear: 2024, ISOWeek: 10, Date: "2024-03-04", DurationMinutes: 90},
		},
		{name: "short row", row: LogRow{"2024", "bad", "row"}, malformed: true},
		{name: "empty row", row: LogRow{}, malformed: true},
		{name: "non numeric year", row: LogRow{"x", "10", "2024-03-04", "45"}, malformed: true},
		{name: "non numeric week", row: LogRow{"2024", "ten", "2024-03-04", "45"}, malformed: true},
		{name: "week out of range", row: LogRow{"2024", "54", "2024-03-04", "45"}, malformed: true},
		{name: "non numeric duration", row: LogRow{"2024", "10", "2024-03-04", "long"}, malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := ParseLogRow(tt.row)
			if tt.malformed {
				require.Error(t, err)
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeMalformedRow))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, entry)
		})
	}
}

func TestLogRow_InWeek(t *testing.T) {
	week := WeekKey{2024, 10}

	assert.True(t, LogRow{"2024", "10", "2024-03-04", "45"}.InWeek(week))
	assert.False(t, LogRow{"2023", "10", "2023-03-06", "45"}.InWeek(week))
	assert.False(t, LogRow{"2024", "010", "2024-03-04", "45"}.InWeek(week), "week compared as stored string")
	assert.False(t, LogRow{"2024"}.InWeek(week))
}

func TestCompletedSession_Entry(t *testing.T) {
	done := CompletedSession{
		ID:          "abc",
		Minutes:     45,
		CompletedAt: time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC),
	}

	entry := done.Entry()
	assert.Equal(t, "abc", entry.SessionID)
	assert.Equal(t, 45, entry.DurationMinutes)
	assert.Equal(t, WeekKey{Year: 2024, Week: 10}, entry.Week())
	assert.Equal(t, "14:30:00", entry.WallClockTime)
}
