// Package timer implements the Pomodoro countdown: one Session owns the
// timer state and at most one counting worker goroutine.
package timer

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/errors"
	"discipline-dashboard/internal/logging"
)

// ErrClosed is returned by Start and Resume after Close.
var ErrClosed = stderrors.New("timer: session closed")

const (
	defaultTickInterval  = time.Second
	defaultEventBuffer   = 64
	defaultRecordTimeout = 5 * time.Second
)

// Session is a single Pomodoro countdown.
//
// State changes and the per-tick decrement happen under one mutex, so a
// Pause racing the final tick either wins (the session stays paused with
// time left) or loses (the session completes and is recorded). Each worker
// carries a generation number; a worker whose generation is stale exits
// without touching the state.
type Session struct {
	recorder      Recorder
	clock         Clock
	tickInterval  time.Duration
	recordTimeout time.Duration
	maxMinutes    int
	logger        *slog.Logger

	events       chan Event
	emitMu       sync.Mutex
	eventsClosed bool

	mu        sync.Mutex
	state     domain.TimerState
	sessionID string
	gen       uint64
	cancel    context.CancelFunc
	done      chan struct{}
	closed    bool
	wg        sync.WaitGroup
}

// Option configures a Session
type Option func(*Session)

// WithClock replaces the real clock
func WithClock(c Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithTickInterval sets how often the countdown decrements. One tick is
// always one second of countdown; a shorter interval only speeds it up.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logging.OrDiscard(l)
	}
}

// WithEventBuffer sets the capacity of the event channel
func WithEventBuffer(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.events = make(chan Event, n)
		}
	}
}

// WithRecordTimeout bounds the call to the Recorder on completion
func WithRecordTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.recordTimeout = d
		}
	}
}

// WithMaxMinutes makes Start reject countdowns longer than n minutes.
// Zero means no limit.
func WithMaxMinutes(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxMinutes = n
		}
	}
}

// New creates an idle Session that reports completed countdowns to recorder.
// A nil recorder discards completions.
func New(recorder Recorder, opts ...Option) *Session {
	s := &Session{
		recorder:      recorder,
		clock:         RealClock(),
		tickInterval:  defaultTickInterval,
		recordTimeout: defaultRecordTimeout,
		logger:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.events == nil {
		s.events = make(chan Event, defaultEventBuffer)
	}
	return s
}

// Events returns the channel on which the session publishes events.
// Delivery is best-effort: events are dropped when the buffer is full.
// The channel is closed by Close.
func (s *Session) Events() <-chan Event {
	return s.events
}

// State returns a snapshot of the timer state.
func (s *Session) State() domain.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SessionID returns the id of the current or most recent countdown.
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Start begins a countdown of minutes. It is a no-op while a countdown is
// running. A paused countdown is discarded without being recorded.
func (s *Session) Start(minutes int) error {
	if minutes <= 0 {
		return errors.NewInvalidInputError("minutes", minutes, "must be a positive number of minutes")
	}
	if s.maxMinutes > 0 && minutes > s.maxMinutes {
		return errors.NewInvalidInputError("minutes", minutes, fmt.Sprintf("must be at most %d minutes", s.maxMinutes))
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state.Running {
		s.mu.Unlock()
		return nil
	}
	prev := s.stopWorkerLocked()
	s.mu.Unlock()

	waitDone(prev)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state.Running {
		// another Start won the race
		s.mu.Unlock()
		return nil
	}
	discarded := s.state.Status() == domain.TimerPaused
	s.state = domain.TimerState{
		TotalDurationMinutes: minutes,
		RemainingSeconds:     minutes * 60,
		Running:              true,
	}
	s.sessionID = uuid.NewString()
	s.launchLocked()
	ev := s.eventLocked(EventTick)
	s.mu.Unlock()

	if discarded {
		s.logger.Info("paused session discarded")
	}
	s.logger.Info("session started", "session_id", ev.SessionID, "minutes", minutes)
	s.emit(ev)
	return nil
}

// Pause stops the countdown, keeping the remaining time. It returns once
// the worker has exited. No-op when not running.
func (s *Session) Pause() {
	s.mu.Lock()
	if !s.state.Running {
		s.mu.Unlock()
		return
	}
	s.state.Running = false
	done := s.stopWorkerLocked()
	ev := s.eventLocked(EventPaused)
	s.mu.Unlock()

	waitDone(done)
	s.logger.Info("session paused", "session_id", ev.SessionID, "remaining", ev.Display)
	s.emit(ev)
}

// Resume continues a paused countdown from its remaining time. No-op when
// running or when there is nothing to resume.
func (s *Session) Resume() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state.Running || s.state.RemainingSeconds <= 0 {
		s.mu.Unlock()
		return nil
	}
	prev := s.stopWorkerLocked()
	s.mu.Unlock()

	waitDone(prev)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state.Running || s.state.RemainingSeconds <= 0 {
		s.mu.Unlock()
		return nil
	}
	s.state.Running = true
	s.launchLocked()
	ev := s.eventLocked(EventResumed)
	s.mu.Unlock()

	s.logger.Info("session resumed", "session_id", ev.SessionID, "remaining", ev.Display)
	s.emit(ev)
	return nil
}

// Toggle pauses a running countdown or resumes a paused one.
func (s *Session) Toggle() error {
	switch s.State().Status() {
	case domain.TimerRunning:
		s.Pause()
		return nil
	case domain.TimerPaused:
		return s.Resume()
	default:
		return nil
	}
}

// Reset cancels the countdown without recording it.
func (s *Session) Reset() {
	s.mu.Lock()
	elapsed := 0
	if s.state.Status() != domain.TimerIdle {
		elapsed = s.state.ElapsedSeconds()
	}
	s.state.Running = false
	s.state.RemainingSeconds = 0
	done := s.stopWorkerLocked()
	ev := s.eventLocked(EventReset)
	s.mu.Unlock()

	waitDone(done)
	s.logger.Info("session reset", "session_id", ev.SessionID, "elapsed_seconds", elapsed)
	s.emit(ev)
}

// Close stops any countdown, waits for in-flight recording to finish and
// closes the event channel. The session cannot be restarted.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.state.Running = false
	s.stopWorkerLocked()
	s.mu.Unlock()

	s.wg.Wait()

	s.emitMu.Lock()
	s.eventsClosed = true
	close(s.events)
	s.emitMu.Unlock()
}

// launchLocked starts a worker for the current state. The ticker is created
// before the goroutine so the first tick is never missed.
func (s *Session) launchLocked() {
	s.gen++
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	ticker := s.clock.NewTicker(s.tickInterval)

	s.cancel = cancel
	s.done = done
	s.wg.Add(1)
	go s.run(ctx, cancel, s.gen, ticker, done)
}

// stopWorkerLocked cancels the current worker and returns its done channel.
func (s *Session) stopWorkerLocked() chan struct{} {
	done := s.done
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = nil
	s.done = nil
	return done
}

func waitDone(done chan struct{}) {
	if done != nil {
		<-done
	}
}

func (s *Session) run(ctx context.Context, cancel context.CancelFunc, gen uint64, ticker Ticker, done chan struct{}) {
	defer s.wg.Done()
	defer close(done)
	defer cancel()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}

		s.mu.Lock()
		if s.gen != gen || !s.state.Running || ctx.Err() != nil {
			s.mu.Unlock()
			return
		}

		s.state.RemainingSeconds--
		if s.state.RemainingSeconds > 0 {
			ev := s.eventLocked(EventTick)
			s.mu.Unlock()
			s.emit(ev)
			continue
		}

		// Completed. Detach from the session so Start/Reset don't wait on the recording.
		s.state.RemainingSeconds = 0
		s.state.Running = false
		s.cancel = nil
		s.done = nil
		completed := domain.CompletedSession{
			ID:          s.sessionID,
			Minutes:     s.state.TotalDurationMinutes,
			CompletedAt: s.clock.Now(),
		}
		tick := s.eventLocked(EventTick)
		s.mu.Unlock()

		s.emit(tick)
		err := s.record(completed)
		s.emit(Event{
			Kind:      EventCompleted,
			State:     tick.State,
			Display:   tick.Display,
			SessionID: completed.ID,
			Err:       err,
		})
		return
	}
}

// record hands the completed session to the recorder. Failures and panics
// are returned, never propagated to the worker.
func (s *Session) record(completed domain.CompletedSession) (err error) {
	if s.recorder == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recording session panicked: %v", r)
		}
		if err != nil {
			s.logger.Error("session completed but not recorded",
				"session_id", completed.ID, "minutes", completed.Minutes, "error", err)
		} else {
			s.logger.Info("session completed",
				"session_id", completed.ID, "minutes", completed.Minutes)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.recordTimeout)
	defer cancel()
	return s.recorder.RecordSession(ctx, completed)
}

func (s *Session) eventLocked(kind EventKind) Event {
	return Event{
		Kind:      kind,
		State:     s.state,
		Display:   s.state.Display(),
		SessionID: s.sessionID,
	}
}

func (s *Session) emit(ev Event) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if s.eventsClosed {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.logger.Debug("timer event dropped", "kind", ev.Kind.String())
	}
}
