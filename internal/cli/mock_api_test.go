package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"

	"discipline-dashboard/internal/api"
	"discipline-dashboard/internal/config"
	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/errors"
)

var testNow = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

// mockAPI implements api.API in memory for testing
type mockAPI struct {
	mu        sync.Mutex
	tasks     []domain.Task
	entries   []domain.SessionEntry
	recorded  []domain.CompletedSession
	loads     int
	err       error
	recordErr error
	// beforeRecord runs at the start of RecordSession, outside the lock
	beforeRecord func()
}

// newMockAPI creates a mock with the default checklist
func newMockAPI() *mockAPI {
	return &mockAPI{tasks: domain.DefaultTasks()}
}

func (m *mockAPI) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.loads++
	return append([]domain.Task(nil), m.tasks...), nil
}

func (m *mockAPI) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.tasks = domain.TasksFromTexts(domain.TaskTexts(tasks))
	return nil
}

func (m *mockAPI) AddTask(ctx context.Context, text string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NewValidationError("invalid task text", nil)
	}
	m.tasks = append(m.tasks, domain.NewTask(text))
	return append([]domain.Task(nil), m.tasks...), nil
}

func (m *mockAPI) RemoveTask(ctx context.Context, index int) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if index < 0 || index >= len(m.tasks) {
		return nil, errors.NewNotFoundError("task", index+1)
	}
	m.tasks = append(m.tasks[:index], m.tasks[index+1:]...)
	return append([]domain.Task(nil), m.tasks...), nil
}

func (m *mockAPI) ResetTasks(ctx context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.tasks = domain.DefaultTasks()
	return domain.DefaultTasks(), nil
}

func (m *mockAPI) RecordSession(ctx context.Context, done domain.CompletedSession) error {
	if m.beforeRecord != nil {
		m.beforeRecord()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, done)
	m.entries = append(m.entries, done.Entry())
	return nil
}

func (m *mockAPI) ListSessions(ctx context.Context) ([]domain.SessionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.SessionEntry(nil), m.entries...), nil
}

func (m *mockAPI) WeeklySummary(ctx context.Context) (*domain.WeeklySummary, error) {
	history, err := m.WeeklyHistory(ctx, 1)
	if err != nil {
		return nil, err
	}
	return &history[0], nil
}

func (m *mockAPI) WeeklyHistory(ctx context.Context, weeks int) ([]domain.WeeklySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	history := make([]domain.WeeklySummary, weeks)
	week := domain.WeekKeyOf(testNow)
	for i := range history {
		history[i].Week = week
		for _, entry := range m.entries {
			if entry.Week() == week {
				history[i].Add(entry)
			}
		}
		week = week.Previous()
	}
	return history, nil
}

func (m *mockAPI) Dashboard(ctx context.Context) (*api.DashboardData, error) {
	tasks, err := m.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := m.WeeklySummary(ctx)
	if err != nil {
		return &api.DashboardData{Tasks: tasks}, err
	}
	return &api.DashboardData{Tasks: tasks, Summary: *summary}, nil
}

func (m *mockAPI) recordedSessions() []domain.CompletedSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CompletedSession(nil), m.recorded...)
}

// addEntry logs a session without going through the timer
func (m *mockAPI) addEntry(at time.Time, minutes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, domain.NewSessionEntry(at, minutes))
}

// setupTestApp creates an App over a mock API writing to a buffer
func setupTestApp(t *testing.T, opts ...AppOption) (*App, *mockAPI, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	cfg := config.NewConfig()
	cfg.Storage.Dir = t.TempDir()

	mock := newMockAPI()
	var out, errOut bytes.Buffer
	base := []AppOption{
		WithOutput(&out, &errOut),
		WithInput(strings.NewReader("")),
		WithInteractive(func() bool { return false }),
	}
	app := NewApp(mock, cfg, append(base, opts...)...)
	return app, mock, &out
}
