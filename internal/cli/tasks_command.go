package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"discipline-dashboard/internal/api"
	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/errors"
)

// TasksCommand handles the tasks command and its subcommands
type TasksCommand struct {
	app *App
	api api.API
	// Force lets init overwrite an existing task file
	Force bool
}

// NewTasksCommand creates a new tasks command handler
func NewTasksCommand(app *App) *TasksCommand {
	return &TasksCommand{app: app, api: app.api}
}

// List prints the checklist, creating the task file when missing
func (c *TasksCommand) List(ctx context.Context, args []string) error {
	tasks, err := c.api.LoadTasks(ctx)
	if err != nil {
		return err
	}
	c.print(tasks)
	return nil
}

// Add appends the joined arguments as one task
func (c *TasksCommand) Add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "tasks add", "usage: dash tasks add <text>")
	}

	tasks, err := c.api.AddTask(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Added task %d: %s\n", len(tasks), tasks[len(tasks)-1].Text)
	return nil
}

// Remove deletes the task with the given one-based number
func (c *TasksCommand) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "tasks remove", "usage: dash tasks remove <number>")
	}
	number, err := strconv.Atoi(args[0])
	if err != nil || number < 1 {
		return errors.NewInvalidInputError("task number", args[0], "must be a positive number")
	}

	tasks, err := c.api.RemoveTask(ctx, number-1)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Removed task %d\n", number)
	c.print(tasks)
	return nil
}

// Init writes the default checklist. An existing task file is only replaced with Force.
func (c *TasksCommand) Init(ctx context.Context, args []string) error {
	path := c.app.config.TaskFilePath()
	if _, err := os.Stat(path); err == nil && !c.Force {
		return errors.NewInvalidInputError("task file", path, "already exists, use --force to overwrite")
	}

	tasks, err := c.api.ResetTasks(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Initialized %s\n", path)
	c.print(tasks)
	return nil
}

func (c *TasksCommand) print(tasks []domain.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No tasks")
		return
	}
	number := color.New(color.FgCyan)
	for i, task := range tasks {
		number.Fprintf(c.app.out, "%3d.", i+1)
		fmt.Fprintf(c.app.out, " %s\n", task.Text)
	}
}
