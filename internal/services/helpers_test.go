package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/repository/file"
)

// stubLog is an in-memory SessionLog with injectable failures
type stubLog struct {
	rows      []domain.LogRow
	appended  []domain.SessionEntry
	rowsErr   error
	appendErr error
}

func (s *stubLog) Append(ctx context.Context, entry domain.SessionEntry) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, entry)
	s.rows = append(s.rows, entry.Row())
	return nil
}

func (s *stubLog) Rows(ctx context.Context) ([]domain.LogRow, error) {
	if s.rowsErr != nil {
		return nil, s.rowsErr
	}
	return s.rows, nil
}

func (s *stubLog) Close() error { return nil }

// listingLog also implements repository.EntryLister
type listingLog struct {
	stubLog
	entries []domain.SessionEntry
}

func (l *listingLog) Entries(ctx context.Context) ([]domain.SessionEntry, error) {
	return l.entries, nil
}

// failingTaskStore returns err from every call
type failingTaskStore struct {
	err error
}

func (f failingTaskStore) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	return nil, f.err
}

func (f failingTaskStore) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	return f.err
}

var errDiskFull = errors.New("disk full")

func newTaskFile(t *testing.T) *file.TaskFile {
	t.Helper()
	return file.NewTaskFile(filepath.Join(t.TempDir(), "tasks.json"), 0)
}

func newCSVLog(t *testing.T) *file.CSVLog {
	t.Helper()
	return file.NewCSVLog(filepath.Join(t.TempDir(), "pomodoro_log.csv"), 0)
}
