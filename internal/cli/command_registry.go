package cli

import (
	"context"
	"sort"
	"strings"

	"discipline-dashboard/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandFunc adapts a function to Command
type CommandFunc func(ctx context.Context, args []string) error

// Execute calls f
func (f CommandFunc) Execute(ctx context.Context, args []string) error {
	return f(ctx, args)
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	tasks := NewTasksCommand(app)

	// Register all commands
	registry.Register("dashboard", NewDashboardCommand(app))
	registry.Register("timer", NewTimerCommand(app))
	registry.Register("tasks", CommandFunc(tasks.List))
	registry.Register("tasks add", CommandFunc(tasks.Add))
	registry.Register("tasks remove", CommandFunc(tasks.Remove))
	registry.Register("tasks init", CommandFunc(tasks.Init))
	registry.Register("summary", NewSummaryCommand(app))
	registry.Register("log", NewLogCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName,
			"unknown command, expected one of: "+strings.Join(r.Names(), ", "))
	}
	return command.Execute(ctx, args)
}

// Names returns the registered command names in sorted order
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

