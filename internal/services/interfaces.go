package services

import (
	"context"

	"discipline-dashboard/internal/domain"
)

// TaskService handles the checklist lifecycle
type TaskService interface {
	// Load returns the checklist, initializing the task file when missing
	Load(ctx context.Context) ([]domain.Task, error)
	// Save validates and overwrites the checklist
	Save(ctx context.Context, tasks []domain.Task) error
	// Add appends a task and saves the checklist
	Add(ctx context.Context, text string) ([]domain.Task, error)
	// Remove deletes the task at the zero-based index and saves the checklist
	Remove(ctx context.Context, index int) ([]domain.Task, error)
	// Reset overwrites the checklist with the default tasks
	Reset(ctx context.Context) ([]domain.Task, error)
}

// SessionService records completed sessions and lists the log
type SessionService interface {
	// RecordSession appends the log entry for a completed session
	RecordSession(ctx context.Context, done domain.CompletedSession) (*domain.SessionEntry, error)
	// Entries returns every well-formed log entry in insertion order
	Entries(ctx context.Context) ([]domain.SessionEntry, error)
}

// Aggregator derives weekly summaries from the session log
type Aggregator interface {
	// ComputeWeeklyTotal summarizes the current ISO week
	ComputeWeeklyTotal(ctx context.Context) (*domain.WeeklySummary, error)
	// ComputeHistory summarizes the current and the previous weeks-1 ISO weeks, newest first
	ComputeHistory(ctx context.Context, weeks int) ([]domain.WeeklySummary, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService    TaskService
	SessionService SessionService
	Aggregator     Aggregator
}
