package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"discipline-dashboard/internal/api"
	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/errors"
)

// SummaryCommand handles the summary command
type SummaryCommand struct {
	app *App
	api api.API
	// Weeks is the number of ISO weeks to show, newest first. Zero uses the configured history.
	Weeks int
	// Mode picks the headline total. Empty uses the configured mode.
	Mode string
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{app: app, api: app.api}
}

// Execute runs the summary command
func (c *SummaryCommand) Execute(ctx context.Context, args []string) error {
	mode := c.app.config.GetSummaryMode()
	if c.Mode != "" {
		parsed, err := domain.ParseSummaryMode(c.Mode)
		if err != nil {
			return err
		}
		mode = parsed
	}

	weeks := c.Weeks
	if weeks == 0 {
		weeks = c.app.config.Display.HistoryWeeks
	}
	if weeks < 1 {
		return errors.NewInvalidInputError("weeks", weeks, "must be at least 1")
	}

	history, err := c.api.WeeklyHistory(ctx, weeks)
	if err != nil {
		return err
	}
	return c.print(history, mode)
}

// print writes the headline for the current week followed by one line per week
func (c *SummaryCommand) print(history []domain.WeeklySummary, mode domain.SummaryMode) error {
	if len(history) == 0 {
		return nil
	}
	out := c.app.out

	color.New(color.Bold, color.FgGreen).Fprintln(out, history[0].Headline(mode))
	if len(history) == 1 {
		return nil
	}

	header := color.New(color.Faint)
	header.Fprintf(out, "%-10s %8s %8s\n", "Week", "Sessions", "Minutes")
	for _, s := range history {
		line := fmt.Sprintf("%-10s %8d %8d", s.Week.String(), s.Count, s.Minutes)
		if s.Count == 0 {
			header.Fprintln(out, line)
			continue
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
