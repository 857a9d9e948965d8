package domain

import "time"

// CompletedSession is what the timer reports when a countdown reaches zero.
// Minutes is the originally requested length, never the elapsed time.
type CompletedSession struct {
	ID          string
	Minutes     int
	CompletedAt time.Time
}

// Entry returns the log entry for the completed session.
func (c CompletedSession) Entry() SessionEntry {
	entry := NewSessionEntry(c.CompletedAt, c.Minutes)
	entry.SessionID = c.ID
	return entry
}
