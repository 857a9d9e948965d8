package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"

	"discipline-dashboard/internal/api"
	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/errors"
	"discipline-dashboard/internal/timer"
	"discipline-dashboard/internal/validation"
)

// TimerCommand runs one countdown without the dashboard, printing the
// remaining time in place.
type TimerCommand struct {
	app    *App
	api    api.API
	prompt func(presets []int) (int, error)
}

// NewTimerCommand creates a new timer command handler
func NewTimerCommand(app *App) *TimerCommand {
	return &TimerCommand{app: app, api: app.api, prompt: selectPreset}
}

// Execute runs the timer command. Without an argument the length is picked
// from the presets. An interrupt cancels the countdown and nothing is logged,
// unless the final tick was already being recorded.
func (c *TimerCommand) Execute(ctx context.Context, args []string) error {
	minutes, err := c.minutes(args)
	if err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(c.app.out, "Cancelled")
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	recorded := make(chan error, 1)
	session := c.app.newSession(timer.RecorderFunc(func(ctx context.Context, done domain.CompletedSession) error {
		err := c.api.RecordSession(ctx, done)
		recorded <- err
		return err
	}))
	defer session.Close()

	if err := session.Start(minutes); err != nil {
		return err
	}
	color.New(color.Bold).Fprintf(c.app.out, "Pomodoro: %d minutes (Ctrl-C to cancel)\n", minutes)

	for {
		select {
		case <-ctx.Done():
			session.Reset()
			// Close waits for a completion that was already being recorded
			session.Close()
			select {
			case err := <-recorded:
				return c.complete(minutes, err)
			default:
			}
			fmt.Fprintln(c.app.out)
			color.New(color.FgYellow).Fprintln(c.app.out, "Cancelled, nothing logged")
			return nil
		case err := <-recorded:
			return c.complete(minutes, err)
		case ev, ok := <-session.Events():
			if !ok {
				return nil
			}
			if ev.Kind == timer.EventTick {
				fmt.Fprintf(c.app.out, "\r%s", ev.Display)
			}
		}
	}
}

// minutes resolves the session length from the argument or the presets.
// Lengths over the configured maximum are rejected before anything starts.
func (c *TimerCommand) minutes(args []string) (int, error) {
	minutes, err := c.requestedMinutes(args)
	if err != nil {
		return 0, err
	}
	validator := validation.NewSessionValidator(validation.NewValidatorWithConfig(c.app.config))
	if err := validator.ValidateMinutes(minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

func (c *TimerCommand) requestedMinutes(args []string) (int, error) {
	if len(args) > 0 {
		minutes, err := strconv.Atoi(args[0])
		if err != nil || minutes <= 0 {
			return 0, errors.NewInvalidInputError("minutes", args[0], "must be a positive number of minutes")
		}
		return minutes, nil
	}

	presets := c.app.config.Timer.Presets
	if len(presets) == 0 {
		return 0, errors.NewInvalidInputError("minutes", "", "no presets configured, pass the minutes")
	}
	if !c.app.isInteractive() {
		return presets[0], nil
	}
	return c.prompt(presets)
}

// complete reports the outcome of recording a finished countdown
func (c *TimerCommand) complete(minutes int, recordErr error) error {
	fmt.Fprintf(c.app.out, "\r%s\n", domain.FormatClock(0))
	if recordErr != nil {
		return fmt.Errorf("session completed but was not logged: %w", recordErr)
	}
	color.New(color.FgGreen).Fprintf(c.app.out, "Session complete: %d minutes logged\n", minutes)
	c.printWeek()
	return nil
}

// printWeek runs after an interrupt too, so it does not use the command context
func (c *TimerCommand) printWeek() {
	ctx, cancel := context.WithTimeout(context.Background(), c.app.timeout())
	defer cancel()

	summary, err := c.api.WeeklySummary(ctx)
	if err != nil {
		c.app.logger.Error("weekly summary failed", "error", err)
		return
	}
	fmt.Fprintln(c.app.out, summary.Headline(c.app.config.GetSummaryMode()))
}

// selectPreset asks for a session length
func selectPreset(presets []int) (int, error) {
	options := make([]huh.Option[int], len(presets))
	for i, p := range presets {
		options[i] = huh.NewOption(fmt.Sprintf("%d minutes", p), p)
	}

	minutes := presets[0]
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Session length").
				Options(options...).
				Value(&minutes),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return 0, err
	}
	return minutes, nil
}
