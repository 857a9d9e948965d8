// Package api is the application facade used by the command line and the
// dashboard. It also records completed timer sessions.
package api

import (
	"context"
	"log/slog"
	"time"

	"discipline-dashboard/internal/config"
	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/logging"
	"discipline-dashboard/internal/services"
	"discipline-dashboard/internal/validation"
)

// API defines the checklist, session log and summary operations.
type API interface {
	// Task operations
	LoadTasks(ctx context.Context) ([]domain.Task, error)
	SaveTasks(ctx context.Context, tasks []domain.Task) error
	AddTask(ctx context.Context, text string) ([]domain.Task, error)
	RemoveTask(ctx context.Context, index int) ([]domain.Task, error)
	ResetTasks(ctx context.Context) ([]domain.Task, error)

	// Session log operations
	RecordSession(ctx context.Context, done domain.CompletedSession) error
	ListSessions(ctx context.Context) ([]domain.SessionEntry, error)

	// Summaries
	WeeklySummary(ctx context.Context) (*domain.WeeklySummary, error)
	WeeklyHistory(ctx context.Context, weeks int) ([]domain.WeeklySummary, error)
	Dashboard(ctx context.Context) (*DashboardData, error)
}

type apiImpl struct {
	tasks      services.TaskService
	sessions   services.SessionService
	aggregator services.Aggregator
	logger     *slog.Logger
}

// New creates an API over the given services.
func New(container *services.ServiceContainer, logger *slog.Logger) API {
	return &apiImpl{
		tasks:      container.TaskService,
		sessions:   container.SessionService,
		aggregator: container.Aggregator,
		logger:     logging.OrDiscard(logger),
	}
}

// NewFromStores wires the services for the configured stores.
func NewFromStores(stores *config.Stores, cfg *config.Config, logger *slog.Logger) API {
	return New(NewServiceContainer(stores, cfg, logger, time.Now), logger)
}

// NewServiceContainer builds the services sharing one validator and logger.
func NewServiceContainer(stores *config.Stores, cfg *config.Config, logger *slog.Logger, now func() time.Time) *services.ServiceContainer {
	validator := validation.NewValidatorWithConfig(cfg)
	return &services.ServiceContainer{
		TaskService:    services.NewTaskService(stores.Tasks, validator, logger),
		SessionService: services.NewSessionService(stores.Log, validator, logger),
		Aggregator: services.NewWeeklyAggregator(stores.Log,
			services.WithNow(now),
			services.WithAggregatorLogger(logger),
		),
	}
}

func (a *apiImpl) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	return a.tasks.Load(ctx)
}

func (a *apiImpl) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	return a.tasks.Save(ctx, tasks)
}

func (a *apiImpl) AddTask(ctx context.Context, text string) ([]domain.Task, error) {
	return a.tasks.Add(ctx, text)
}

// RemoveTask deletes the task at the zero-based index.
func (a *apiImpl) RemoveTask(ctx context.Context, index int) ([]domain.Task, error) {
	return a.tasks.Remove(ctx, index)
}

func (a *apiImpl) ResetTasks(ctx context.Context) ([]domain.Task, error) {
	return a.tasks.Reset(ctx)
}

// RecordSession appends the entry for a completed countdown. It satisfies
// timer.Recorder.
func (a *apiImpl) RecordSession(ctx context.Context, done domain.CompletedSession) error {
	_, err := a.sessions.RecordSession(ctx, done)
	return err
}

func (a *apiImpl) ListSessions(ctx context.Context) ([]domain.SessionEntry, error) {
	return a.sessions.Entries(ctx)
}

func (a *apiImpl) WeeklySummary(ctx context.Context) (*domain.WeeklySummary, error) {
	return a.aggregator.ComputeWeeklyTotal(ctx)
}

func (a *apiImpl) WeeklyHistory(ctx context.Context, weeks int) ([]domain.WeeklySummary, error) {
	return a.aggregator.ComputeHistory(ctx, weeks)
}
