package timer

import (
	"context"

	"discipline-dashboard/internal/domain"
)

// EventKind tells the UI what happened to the session.
type EventKind int

const (
	EventTick EventKind = iota
	EventCompleted
	EventPaused
	EventResumed
	EventReset
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventTick:
		return "tick"
	case EventCompleted:
		return "completed"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is published on the session's event channel. Display is the
// remaining time as mm:ss. Err is only set on EventCompleted, when the
// session could not be recorded.
type Event struct {
	Kind      EventKind
	State     domain.TimerState
	Display   string
	SessionID string
	Err       error
}

// Recorder persists completed sessions.
type Recorder interface {
	RecordSession(ctx context.Context, done domain.CompletedSession) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, done domain.CompletedSession) error

// RecordSession calls f.
func (f RecorderFunc) RecordSession(ctx context.Context, done domain.CompletedSession) error {
	return f(ctx, done)
}
