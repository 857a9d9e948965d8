package domain

import "fmt"

// TimerStatus is the observable state of a countdown.
type TimerStatus int

const (
	TimerIdle TimerStatus = iota
	TimerRunning
	TimerPaused
)

// String returns the status name.
func (s TimerStatus) String() string {
	switch s {
	case TimerIdle:
		return "idle"
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// TimerState is a snapshot of one timer session.
type TimerState struct {
	TotalDurationMinutes int
	RemainingSeconds     int
	Running              bool
}

// Status derives the state-machine position from the snapshot.
// Completed and cancelled sessions are transient and report idle.
func (s TimerState) Status() TimerStatus {
	switch {
	case s.Running:
		return TimerRunning
	case s.RemainingSeconds > 0:
		return TimerPaused
	default:
		return TimerIdle
	}
}

// Display renders the remaining time as mm:ss.
func (s TimerState) Display() string {
	return FormatClock(s.RemainingSeconds)
}

// ElapsedSeconds returns how much of the requested duration has been counted down.
func (s TimerState) ElapsedSeconds() int {
	if s.TotalDurationMinutes == 0 {
		return 0
	}
	return s.TotalDurationMinutes*60 - s.RemainingSeconds
}

// FormatClock renders seconds as mm:ss; minutes are not wrapped into hours.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
