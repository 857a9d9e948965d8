// Package watch notifies listeners when the task file changes on disk.
package watch

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"discipline-dashboard/internal/logging"
)

// Trigger invokes registered callbacks when its source changes.
type Trigger interface {
	OnChange(fn func())
}

const defaultInterval = time.Second

// Poller is a Trigger that polls a file's modification time. A file that
// appears, disappears or gets a new mtime counts as a change.
type Poller struct {
	path     string
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	callbacks []func()
	lastMod   time.Time
	exists    bool
	primed    bool
}

// Option configures a Poller
type Option func(*Poller)

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Poller) {
		p.logger = logging.OrDiscard(l)
	}
}

// NewPoller watches path every interval. Non-positive intervals fall back to one second.
func NewPoller(path string, interval time.Duration, opts ...Option) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	p := &Poller{
		path:     path,
		interval: interval,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnChange registers fn. Callbacks run on the polling goroutine in registration order.
func (p *Poller) OnChange(fn func()) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, fn)
}

// Path returns the watched file
func (p *Poller) Path() string {
	return p.path
}

// Run polls until ctx is cancelled. The state at the first poll is the
// baseline and does not fire callbacks.
func (p *Poller) Run(ctx context.Context) error {
	p.Poll()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Poll()
		}
	}
}

// Poll stats the file once and fires the callbacks when it changed since the
// previous poll. It reports whether a change was seen.
func (p *Poller) Poll() bool {
	var (
		mod    time.Time
		exists bool
	)
	info, err := os.Stat(p.path)
	switch {
	case err == nil:
		mod, exists = info.ModTime(), true
	case os.IsNotExist(err):
	default:
		p.logger.Debug("stat watched file failed", "path", p.path, "error", err)
		return false
	}

	p.mu.Lock()
	changed := p.primed && (exists != p.exists || !mod.Equal(p.lastMod))
	p.primed = true
	p.exists = exists
	p.lastMod = mod
	callbacks := append([]func(){}, p.callbacks...)
	p.mu.Unlock()

	if !changed {
		return false
	}

	p.logger.Debug("watched file changed", "path", p.path, "exists", exists)
	for _, fn := range callbacks {
		fn()
	}
	return true
}
