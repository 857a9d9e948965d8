// Package file implements the task file and session log on plain files:
// a JSON array of task texts and a headerless CSV log.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"discipline-dashboard/internal/domain"
	apperrors "discipline-dashboard/internal/errors"
)

var errNotArray = errors.New("expected a JSON array of strings")

// TaskFile stores the checklist as a pretty-printed JSON array of strings.
type TaskFile struct {
	path    string
	dirPerm os.FileMode
	mu      sync.Mutex
}

// NewTaskFile returns a TaskFile backed by path.
func NewTaskFile(path string, dirPerm os.FileMode) *TaskFile {
	if dirPerm == 0 {
		dirPerm = 0755
	}
	return &TaskFile{path: path, dirPerm: dirPerm}
}

// Path returns the location of the task file.
func (f *TaskFile) Path() string {
	return f.path
}

// LoadTasks reads the task file. When the file does not exist the default
// checklist is written and returned.
func (f *TaskFile) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		defaults := domain.DefaultTasks()
		if err := f.write(defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, apperrors.NewIOError("read task file", f.path, err)
	}

	var texts []string
	if err := json.Unmarshal(data, &texts); err != nil {
		return nil, apperrors.NewIOError("parse task file", f.path, err)
	}
	// null decodes without error but is not an array
	if texts == nil {
		return nil, apperrors.NewIOError("parse task file", f.path, errNotArray)
	}

	return domain.TasksFromTexts(texts), nil
}

// SaveTasks overwrites the task file with the task texts.
func (f *TaskFile) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(tasks)
}

func (f *TaskFile) write(tasks []domain.Task) error {
	if err := os.MkdirAll(filepath.Dir(f.path), f.dirPerm); err != nil {
		return apperrors.NewIOError("create task directory", filepath.Dir(f.path), err)
	}

	data, err := json.MarshalIndent(domain.TaskTexts(tasks), "", "  ")
	if err != nil {
		return apperrors.NewIOError("encode task file", f.path, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return apperrors.NewIOError("write task file", f.path, err)
	}
	return nil
}
