package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"discipline-dashboard/internal/api"
	"discipline-dashboard/internal/config"
	"discipline-dashboard/internal/logging"
	"discipline-dashboard/internal/timer"
)

// App carries the dependencies shared by every command
type App struct {
	api           api.API
	config        *config.Config
	logger        *slog.Logger
	out           io.Writer
	errOut        io.Writer
	in            io.Reader
	isInteractive func() bool
	timerOptions  []timer.Option
	registry      *CommandRegistry
}

// AppOption configures an App
type AppOption func(*App)

// WithOutput redirects standard and error output
func WithOutput(out, errOut io.Writer) AppOption {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

// WithInput sets the reader used for prompts
func WithInput(in io.Reader) AppOption {
	return func(a *App) {
		a.in = in
	}
}

// WithInteractive overrides terminal detection
func WithInteractive(fn func() bool) AppOption {
	return func(a *App) {
		a.isInteractive = fn
	}
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) AppOption {
	return func(a *App) {
		a.logger = logging.OrDiscard(l)
	}
}

// WithTimerOptions appends options for every timer session the app creates
func WithTimerOptions(opts ...timer.Option) AppOption {
	return func(a *App) {
		a.timerOptions = append(a.timerOptions, opts...)
	}
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(apiInstance api.API, cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		api:           apiInstance,
		config:        cfg,
		logger:        logging.Discard(),
		out:           os.Stdout,
		errOut:        os.Stderr,
		in:            os.Stdin,
		isInteractive: stdinIsTerminal,
	}
	for _, opt := range opts {
		opt(app)
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// Run executes the named command with the given arguments
func (a *App) Run(ctx context.Context, name string, args []string) error {
	return a.registry.Execute(ctx, name, args)
}

// newSession creates a timer session configured from the app settings
func (a *App) newSession(recorder timer.Recorder) *timer.Session {
	opts := []timer.Option{
		timer.WithTickInterval(a.config.Timer.TickInterval),
		timer.WithRecordTimeout(a.config.GetWriteTimeout()),
		timer.WithMaxMinutes(a.config.Validation.MaxSessionMinutes),
		timer.WithLogger(a.logger),
	}
	return timer.New(recorder, append(opts, a.timerOptions...)...)
}

// timeout returns the per-command deadline
func (a *App) timeout() time.Duration {
	if a.config.Application.Timeout > 0 {
		return a.config.Application.Timeout
	}
	return 60 * time.Second
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
