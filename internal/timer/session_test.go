package timer

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/errors"
)

// fakeClock hands out tickers that only fire when the test says so
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

type fakeTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) Chan() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) tickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *fakeClock) latest() *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[len(c.tickers)-1]
}

// tick delivers one tick to the newest ticker and advances the clock by a second.
// It reports false when no worker took the tick.
func (c *fakeClock) tick(wait time.Duration) bool {
	t := c.latest()
	c.mu.Lock()
	c.now = c.now.Add(time.Second)
	now := c.now
	c.mu.Unlock()

	select {
	case t.c <- now:
		return true
	case <-time.After(wait):
		return false
	}
}

func (c *fakeClock) advance(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.Truef(t, c.tick(time.Second), "tick %d was not consumed", i+1)
	}
}

// memoryRecorder collects recorded sessions
type memoryRecorder struct {
	mu       sync.Mutex
	sessions []domain.CompletedSession
	err      error
}

func (r *memoryRecorder) RecordSession(ctx context.Context, done domain.CompletedSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sessions = append(r.sessions, done)
	return nil
}

func (r *memoryRecorder) recorded() []domain.CompletedSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CompletedSession, len(r.sessions))
	copy(out, r.sessions)
	return out
}

func newTestSession(t *testing.T, recorder Recorder, opts ...Option) (*Session, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	s := New(recorder, append([]Option{WithClock(clock)}, opts...)...)
	t.Cleanup(s.Close)
	return s, clock
}

func waitRemaining(t *testing.T, s *Session, remaining int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.State().RemainingSeconds == remaining
	}, time.Second, time.Millisecond)
}

func waitForEvent(t *testing.T, s *Session, kind EventKind) Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-s.Events():
			require.True(t, ok, "event channel closed")
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %s event", kind)
		}
	}
}

func TestSession_StartRejectsNonPositiveMinutes(t *testing.T) {
	s, _ := newTestSession(t, nil)

	for _, minutes := range []int{0, -5} {
		err := s.Start(minutes)
		require.Error(t, err)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	}
	assert.Equal(t, domain.TimerIdle, s.State().Status())
}

func TestSession_StartRejectsMinutesOverLimit(t *testing.T) {
	recorder := &memoryRecorder{}
	s, _ := newTestSession(t, recorder, WithMaxMinutes(60))

	err := s.Start(61)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	assert.Equal(t, domain.TimerIdle, s.State().Status())
	assert.Empty(t, s.SessionID())

	require.NoError(t, s.Start(60))
	assert.Equal(t, 60, s.State().TotalDurationMinutes)
}

func TestSession_Start(t *testing.T) {
	s, clock := newTestSession(t, nil)

	require.NoError(t, s.Start(45))

	state := s.State()
	assert.True(t, state.Running)
	assert.Equal(t, 45, state.TotalDurationMinutes)
	assert.Equal(t, 2700, state.RemainingSeconds)
	assert.NotEmpty(t, s.SessionID())
	assert.Equal(t, 1, clock.tickerCount())

	ev := waitForEvent(t, s, EventTick)
	assert.Equal(t, "45:00", ev.Display)

	clock.advance(t, 1)
	waitRemaining(t, s, 2699)
	assert.Equal(t, "44:59", s.State().Display())
}

func TestSession_StartWhileRunningIsNoOp(t *testing.T) {
	s, clock := newTestSession(t, nil)

	require.NoError(t, s.Start(45))
	id := s.SessionID()
	clock.advance(t, 3)
	waitRemaining(t, s, 2697)

	require.NoError(t, s.Start(90))

	assert.Equal(t, 45, s.State().TotalDurationMinutes)
	assert.Equal(t, 2697, s.State().RemainingSeconds)
	assert.Equal(t, id, s.SessionID())
	assert.Equal(t, 1, clock.tickerCount(), "no second worker")
}

func TestSession_PauseResumeCompletesWithRequestedMinutes(t *testing.T) {
	recorder := &memoryRecorder{}
	s, clock := newTestSession(t, recorder)

	require.NoError(t, s.Start(45))
	clock.advance(t, 1700)
	waitRemaining(t, s, 1000)

	s.Pause()
	assert.Equal(t, domain.TimerPaused, s.State().Status())
	assert.True(t, clock.latest().isStopped())
	assert.False(t, clock.tick(20*time.Millisecond), "paused timer must not count")

	require.NoError(t, s.Resume())
	assert.Equal(t, 2, clock.tickerCount())
	clock.advance(t, 1000)

	require.Eventually(t, func() bool { return len(recorder.recorded()) == 1 }, time.Second, time.Millisecond)
	done := recorder.recorded()[0]
	assert.Equal(t, 45, done.Minutes)
	assert.Equal(t, s.SessionID(), done.ID)
	assert.Equal(t, domain.TimerIdle, s.State().Status())
	assert.Equal(t, "00:00", s.State().Display())

	// the worker has exited; nothing consumes further ticks
	assert.False(t, clock.tick(20*time.Millisecond))
	assert.Len(t, recorder.recorded(), 1)
}

func TestSession_CompletionEvent(t *testing.T) {
	recorder := &memoryRecorder{}
	s, clock := newTestSession(t, recorder, WithEventBuffer(256))

	require.NoError(t, s.Start(1))
	clock.advance(t, 60)

	ev := waitForEvent(t, s, EventCompleted)
	assert.NoError(t, ev.Err)
	assert.Equal(t, "00:00", ev.Display)
	assert.False(t, ev.State.Running)
	assert.Len(t, recorder.recorded(), 1)
	assert.Equal(t, clock.Now(), recorder.recorded()[0].CompletedAt)
}

func TestSession_RecordingFailureIsReportedNotFatal(t *testing.T) {
	recorder := &memoryRecorder{err: errors.NewIOError("append log row", "pomodoro_log.csv", stderrors.New("read-only"))}
	s, clock := newTestSession(t, recorder, WithEventBuffer(256))

	require.NoError(t, s.Start(1))
	clock.advance(t, 60)

	ev := waitForEvent(t, s, EventCompleted)
	require.Error(t, ev.Err)
	assert.True(t, errors.IsErrorType(ev.Err, errors.ErrorTypeIO))

	// the session is usable again
	require.NoError(t, s.Start(1))
	assert.True(t, s.State().Running)
}

func TestSession_RecorderPanicIsRecovered(t *testing.T) {
	recorder := RecorderFunc(func(ctx context.Context, done domain.CompletedSession) error {
		panic("boom")
	})
	s, clock := newTestSession(t, recorder, WithEventBuffer(256))

	require.NoError(t, s.Start(1))
	clock.advance(t, 60)

	ev := waitForEvent(t, s, EventCompleted)
	require.Error(t, ev.Err)
	assert.Contains(t, ev.Err.Error(), "boom")
}

func TestSession_ResetWritesNothing(t *testing.T) {
	recorder := &memoryRecorder{}
	s, clock := newTestSession(t, recorder, WithEventBuffer(256))

	require.NoError(t, s.Start(1))
	clock.advance(t, 30)
	waitRemaining(t, s, 30)

	s.Reset()
	state := s.State()
	assert.False(t, state.Running)
	assert.Equal(t, 0, state.RemainingSeconds)
	assert.Equal(t, domain.TimerIdle, state.Status())
	assert.False(t, clock.tick(20*time.Millisecond))

	waitForEvent(t, s, EventReset)
	assert.Empty(t, recorder.recorded())
}

func TestSession_ResetWhilePaused(t *testing.T) {
	recorder := &memoryRecorder{}
	s, clock := newTestSession(t, recorder)

	require.NoError(t, s.Start(1))
	clock.advance(t, 10)
	waitRemaining(t, s, 50)
	s.Pause()

	s.Reset()
	assert.Equal(t, domain.TimerIdle, s.State().Status())
	require.NoError(t, s.Resume())
	assert.False(t, s.State().Running, "nothing to resume after reset")
	assert.Empty(t, recorder.recorded())
}

func TestSession_PauseAndResumeNoOps(t *testing.T) {
	s, clock := newTestSession(t, nil)

	s.Pause()
	require.NoError(t, s.Resume())
	assert.Equal(t, domain.TimerIdle, s.State().Status())
	assert.Equal(t, 0, clock.tickerCount())

	require.NoError(t, s.Start(1))
	require.NoError(t, s.Resume())
	assert.Equal(t, 1, clock.tickerCount(), "resume while running starts no worker")

	s.Pause()
	s.Pause()
	assert.Equal(t, domain.TimerPaused, s.State().Status())
}

func TestSession_StartWhilePausedDiscardsPausedSession(t *testing.T) {
	recorder := &memoryRecorder{}
	s, clock := newTestSession(t, recorder)

	require.NoError(t, s.Start(45))
	first := s.SessionID()
	clock.advance(t, 100)
	waitRemaining(t, s, 2600)
	s.Pause()

	require.NoError(t, s.Start(1))
	assert.NotEqual(t, first, s.SessionID())
	assert.Equal(t, 60, s.State().RemainingSeconds)

	clock.advance(t, 60)
	require.Eventually(t, func() bool { return len(recorder.recorded()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 1, recorder.recorded()[0].Minutes)
}

func TestSession_Toggle(t *testing.T) {
	s, _ := newTestSession(t, nil)

	require.NoError(t, s.Toggle())
	assert.Equal(t, domain.TimerIdle, s.State().Status())

	require.NoError(t, s.Start(1))
	require.NoError(t, s.Toggle())
	assert.Equal(t, domain.TimerPaused, s.State().Status())
	require.NoError(t, s.Toggle())
	assert.Equal(t, domain.TimerRunning, s.State().Status())
}

func TestSession_PauseRacingFinalTick(t *testing.T) {
	for i := 0; i < 50; i++ {
		recorder := &memoryRecorder{}
		clock := newFakeClock()
		s := New(recorder, WithClock(clock))

		require.NoError(t, s.Start(1))
		clock.advance(t, 59)
		waitRemaining(t, s, 1)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			clock.tick(50 * time.Millisecond)
		}()
		go func() {
			defer wg.Done()
			s.Pause()
		}()
		wg.Wait()
		s.Close()

		// either the pause won and nothing is logged, or the tick won and
		// the session is logged exactly once
		state := s.State()
		if len(recorder.recorded()) == 1 {
			assert.Equal(t, 0, state.RemainingSeconds)
		} else {
			assert.Empty(t, recorder.recorded())
			assert.Equal(t, 1, state.RemainingSeconds)
			assert.Equal(t, domain.TimerPaused, state.Status())
		}
	}
}

func TestSession_EventsAreBestEffort(t *testing.T) {
	recorder := &memoryRecorder{}
	s, clock := newTestSession(t, recorder, WithEventBuffer(1))

	// nobody drains the channel
	require.NoError(t, s.Start(1))
	clock.advance(t, 60)

	require.Eventually(t, func() bool { return len(recorder.recorded()) == 1 }, time.Second, time.Millisecond)
}

func TestSession_Close(t *testing.T) {
	recorder := &memoryRecorder{}
	clock := newFakeClock()
	s := New(recorder, WithClock(clock))

	require.NoError(t, s.Start(1))
	s.Close()

	_, ok := <-drain(s.Events())
	assert.False(t, ok, "event channel is closed")
	assert.ErrorIs(t, s.Start(1), ErrClosed)
	assert.ErrorIs(t, s.Resume(), ErrClosed)
	assert.False(t, s.State().Running)
	assert.Empty(t, recorder.recorded())

	// idempotent
	s.Close()
	s.Reset()
}

// drain discards buffered events and returns the channel for a final receive
func drain(ch <-chan Event) <-chan Event {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				closed := make(chan Event)
				close(closed)
				return closed
			}
		default:
			return ch
		}
	}
}

func TestSession_CloseWaitsForRecording(t *testing.T) {
	release := make(chan struct{})
	var recorded sync.WaitGroup
	recorded.Add(1)
	recorder := RecorderFunc(func(ctx context.Context, done domain.CompletedSession) error {
		<-release
		recorded.Done()
		return nil
	})
	clock := newFakeClock()
	s := New(recorder, WithClock(clock))

	require.NoError(t, s.Start(1))
	clock.advance(t, 60)

	closed := make(chan struct{})
	go func() {
		s.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned before recording finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	recorded.Wait()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
}

func TestSession_RecordTimeout(t *testing.T) {
	recorder := RecorderFunc(func(ctx context.Context, done domain.CompletedSession) error {
		<-ctx.Done()
		return ctx.Err()
	})
	s, clock := newTestSession(t, recorder, WithRecordTimeout(10*time.Millisecond), WithEventBuffer(256))

	require.NoError(t, s.Start(1))
	clock.advance(t, 60)

	ev := waitForEvent(t, s, EventCompleted)
	assert.ErrorIs(t, ev.Err, context.DeadlineExceeded)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "tick", EventTick.String())
	assert.Equal(t, "completed", EventCompleted.String())
	assert.Equal(t, "paused", EventPaused.String())
	assert.Equal(t, "resumed", EventResumed.String())
	assert.Equal(t, "reset", EventReset.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}

func TestRealClock(t *testing.T) {
	clock := RealClock()
	ticker := clock.NewTicker(time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.Chan():
	case <-time.After(time.Second):
		t.Fatal("real ticker did not fire")
	}
	assert.WithinDuration(t, time.Now(), clock.Now(), time.Second)
}
