package api

import (
	"context"

	"discipline-dashboard/internal/domain"
)

// DashboardData is everything the dashboard draws apart from the timer.
type DashboardData struct {
	Tasks   []domain.Task
	Summary domain.WeeklySummary
}

// Dashboard loads the checklist and the current week's summary. A failed
// summary does not hide the tasks; the error is returned alongside them.
func (a *apiImpl) Dashboard(ctx context.Context) (*DashboardData, error) {
	tasks, err := a.tasks.Load(ctx)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{Tasks: tasks}
	summary, err := a.aggregator.ComputeWeeklyTotal(ctx)
	if err != nil {
		a.logger.Error("weekly summary failed", "error", err)
		return data, err
	}
	data.Summary = *summary
	return data, nil
}
