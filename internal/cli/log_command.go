package cli

import (
	"context"
	"encoding/csv"
	"fmt"

	"github.com/fatih/color"

	"discipline-dashboard/internal/api"
	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/errors"
)

// Log output formats
const (
	LogFormatTable = "table"
	LogFormatCSV   = "csv"
)

// LogCommand lists or exports the session log
type LogCommand struct {
	app *App
	api api.API
	// Format is table or csv
	Format string
}

// NewLogCommand creates a new log command handler
func NewLogCommand(app *App) *LogCommand {
	return &LogCommand{app: app, api: app.api, Format: LogFormatTable}
}

// Execute runs the log command
func (c *LogCommand) Execute(ctx context.Context, args []string) error {
	switch c.Format {
	case LogFormatTable, "":
	case LogFormatCSV:
	default:
		return errors.NewInvalidInputError("format", c.Format, "must be 'table' or 'csv'")
	}

	entries, err := c.api.ListSessions(ctx)
	if err != nil {
		return err
	}

	if c.Format == LogFormatCSV {
		return c.outputCSV(entries)
	}
	c.outputTable(entries)
	return nil
}

// outputCSV writes the entries in the canonical log column order, with a header
func (c *LogCommand) outputCSV(entries []domain.SessionEntry) error {
	writer := csv.NewWriter(c.app.out)

	if err := writer.Write([]string{"year", "week", "date", "duration"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, entry := range entries {
		if err := writer.Write(entry.Row()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (c *LogCommand) outputTable(entries []domain.SessionEntry) {
	out := c.app.out
	if len(entries) == 0 {
		fmt.Fprintln(out, "No sessions logged")
		return
	}

	color.New(color.Faint).Fprintf(out, "%-10s %-10s %-8s %8s\n", "Week", "Date", "Time", "Minutes")
	total := 0
	for _, entry := range entries {
		clock := entry.WallClockTime
		if clock == "" {
			clock = "-"
		}
		fmt.Fprintf(out, "%-10s %-10s %-8s %8d\n", entry.Week().String(), entry.Date, clock, entry.DurationMinutes)
		total += entry.DurationMinutes
	}
	color.New(color.Bold).Fprintf(out, "%d sessions, %d minutes\n", len(entries), total)
}
