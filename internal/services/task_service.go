package services

import (
	"context"
	"log/slog"

	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/errors"
	"discipline-dashboard/internal/logging"
	"discipline-dashboard/internal/repository"
	"discipline-dashboard/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store         repository.TaskStore
	taskValidator *validation.TaskValidator
	logger        *slog.Logger
}

// NewTaskService creates a new TaskService instance
func NewTaskService(store repository.TaskStore, validator *validation.Validator, logger *slog.Logger) TaskService {
	return &taskServiceImpl{
		store:         store,
		taskValidator: validation.NewTaskValidator(validator),
		logger:        logging.OrDiscard(logger),
	}
}

// Load returns the checklist in file order
func (t *taskServiceImpl) Load(ctx context.Context) ([]domain.Task, error) {
	tasks, err := t.store.LoadTasks(ctx)
	if err != nil {
		t.logger.Error("load tasks failed", "error", err)
		return nil, err
	}
	t.logger.Debug("tasks loaded", "count", len(tasks))
	return tasks, nil
}

// Save validates every task and overwrites the checklist
func (t *taskServiceImpl) Save(ctx context.Context, tasks []domain.Task) error {
	if err := t.taskValidator.ValidateTasks(tasks); err != nil {
		return errors.NewValidationError("invalid task list", err)
	}
	if err := t.store.SaveTasks(ctx, tasks); err != nil {
		t.logger.Error("save tasks failed", "error", err)
		return err
	}
	return nil
}

// Add appends a validated task to the checklist
func (t *taskServiceImpl) Add(ctx context.Context, text string) ([]domain.Task, error) {
	cleaned, err := t.taskValidator.GetValidTaskText(text)
	if err != nil {
		return nil, errors.NewValidationError("invalid task text", err)
	}

	tasks, err := t.Load(ctx)
	if err != nil {
		return nil, err
	}

	tasks = append(tasks, domain.NewTask(cleaned))
	if err := t.store.SaveTasks(ctx, tasks); err != nil {
		t.logger.Error("save tasks failed", "error", err)
		return nil, err
	}

	t.logger.Info("task added", "text", cleaned, "count", len(tasks))
	return tasks, nil
}

// Remove deletes the task at index
func (t *taskServiceImpl) Remove(ctx context.Context, index int) ([]domain.Task, error) {
	tasks, err := t.Load(ctx)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(tasks) {
		return nil, errors.NewNotFoundError("task", index+1)
	}

	removed := tasks[index]
	tasks = append(tasks[:index], tasks[index+1:]...)
	if err := t.store.SaveTasks(ctx, tasks); err != nil {
		t.logger.Error("save tasks failed", "error", err)
		return nil, err
	}

	t.logger.Info("task removed", "text", removed.Text, "count", len(tasks))
	return tasks, nil
}

// Reset writes the default checklist
func (t *taskServiceImpl) Reset(ctx context.Context) ([]domain.Task, error) {
	tasks := domain.DefaultTasks()
	if err := t.store.SaveTasks(ctx, tasks); err != nil {
		t.logger.Error("save tasks failed", "error", err)
		return nil, err
	}
	return tasks, nil
}
