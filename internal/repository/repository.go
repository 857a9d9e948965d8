// Package repository declares the persistence contracts shared by the
// file and SQLite backends.
package repository

import (
	"context"

	"discipline-dashboard/internal/domain"
)

// TaskStore reads and writes the task checklist.
type TaskStore interface {
	// LoadTasks returns the tasks in file order. A missing task file is
	// initialized with domain.DefaultTasks.
	LoadTasks(ctx context.Context) ([]domain.Task, error)
	// SaveTasks overwrites the stored checklist. Completion state is not persisted.
	SaveTasks(ctx context.Context, tasks []domain.Task) error
}

// SessionLog is the append-only log of completed sessions.
type SessionLog interface {
	// Append adds one entry at the end of the log.
	Append(ctx context.Context, entry domain.SessionEntry) error
	// Rows returns every raw row in insertion order. Rows are not validated;
	// a missing log yields no rows.
	Rows(ctx context.Context) ([]domain.LogRow, error)
	// Close releases any resources held by the log.
	Close() error
}

// EntryLister is implemented by logs that keep more than the canonical
// columns, such as the wall-clock time and session id.
type EntryLister interface {
	Entries(ctx context.Context) ([]domain.SessionEntry, error)
}
