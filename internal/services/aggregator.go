package services

import (
	"context"
	"log/slog"
	"time"

	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/errors"
	"discipline-dashboard/internal/logging"
	"discipline-dashboard/internal/repository"
)

// WeeklyAggregator computes weekly totals by scanning the whole session log.
// Rows are matched on their stored year and week strings; malformed rows are
// skipped and never reported as errors.
type WeeklyAggregator struct {
	log    repository.SessionLog
	now    func() time.Time
	logger *slog.Logger
}

// AggregatorOption configures a WeeklyAggregator
type AggregatorOption func(*WeeklyAggregator)

// WithNow sets the clock used to determine the current ISO week
func WithNow(now func() time.Time) AggregatorOption {
	return func(a *WeeklyAggregator) {
		a.now = now
	}
}

// WithAggregatorLogger sets the logger receiving malformed-row warnings
func WithAggregatorLogger(logger *slog.Logger) AggregatorOption {
	return func(a *WeeklyAggregator) {
		a.logger = logging.OrDiscard(logger)
	}
}

// NewWeeklyAggregator creates a WeeklyAggregator over log
func NewWeeklyAggregator(log repository.SessionLog, opts ...AggregatorOption) *WeeklyAggregator {
	a := &WeeklyAggregator{
		log:    log,
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ComputeWeeklyTotal returns the session count and minute total for the current ISO week
func (a *WeeklyAggregator) ComputeWeeklyTotal(ctx context.Context) (*domain.WeeklySummary, error) {
	summaries, err := a.ComputeHistory(ctx, 1)
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}

// ComputeHistory returns one summary per ISO week, newest first, starting at
// the current week. All weeks are filled in a single pass over the log.
func (a *WeeklyAggregator) ComputeHistory(ctx context.Context, weeks int) ([]domain.WeeklySummary, error) {
	if weeks < 1 {
		return nil, errors.NewInvalidInputError("weeks", weeks, "must be at least 1")
	}

	summaries := make([]domain.WeeklySummary, weeks)
	key := domain.WeekKeyOf(a.now())
	for i := range summaries {
		summaries[i].Week = key
		key = key.Previous()
	}

	rows, err := a.log.Rows(ctx)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		entry, err := domain.ParseLogRow(row)
		if err != nil {
			a.logger.Debug("skipping malformed log row", "line", i+1, "error", err)
			continue
		}
		if idx := matchWeek(row, summaries); idx >= 0 {
			summaries[idx].Add(entry)
		}
	}

	return summaries, nil
}

func matchWeek(row domain.LogRow, summaries []domain.WeeklySummary) int {
	for i := range summaries {
		if row.InWeek(summaries[i].Week) {
			return i
		}
	}
	return -1
}
