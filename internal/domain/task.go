package domain

import "fmt"

// Task is one checklist item on the dashboard.
// Completed is UI state only and is never written back to the task file.
type Task struct {
	Text      string
	Completed bool
}

// NewTask creates a new, not yet completed Task with the given text.
func NewTask(text string) Task {
	return Task{
		Text: text,
	}
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return t.Text != ""
}

// Toggle flips the completion flag.
func (t *Task) Toggle() {
	t.Completed = !t.Completed
}

// String returns the task text for display purposes.
func (t Task) String() string {
	return t.Text
}

// DefaultTasks returns the placeholder checklist written when no task file exists.
func DefaultTasks() []Task {
	tasks := make([]Task, 3)
	for i := range tasks {
		tasks[i] = NewTask(fmt.Sprintf("Task %d", i+1))
	}
	return tasks
}

// TasksFromTexts builds tasks in file order.
func TasksFromTexts(texts []string) []Task {
	tasks := make([]Task, len(texts))
	for i, text := range texts {
		tasks[i] = NewTask(text)
	}
	return tasks
}

// TaskTexts returns the persisted representation of tasks, dropping completion state.
func TaskTexts(tasks []Task) []string {
	texts := make([]string, len(tasks))
	for i, task := range tasks {
		texts[i] = task.Text
	}
	return texts
}
