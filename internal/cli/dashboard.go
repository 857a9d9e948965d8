package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"discipline-dashboard/internal/api"
	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/timer"
	"discipline-dashboard/internal/watch"
)

// ── key map ──────────────────────────────────────────────────────────────────

type dashboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Presets []key.Binding
	Pause   key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

// newDashboardKeyMap binds 1..n to the first presets
func newDashboardKeyMap(presets []int) dashboardKeyMap {
	km := dashboardKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "check")),
		Pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	for i, minutes := range presets {
		if i == 9 {
			break
		}
		k := fmt.Sprintf("%d", i+1)
		km.Presets = append(km.Presets, key.NewBinding(key.WithKeys(k), key.WithHelp(k, fmt.Sprintf("%dm", minutes))))
	}
	return km
}

func (k dashboardKeyMap) ShortHelp() []key.Binding {
	bindings := append([]key.Binding{}, k.Presets...)
	return append(bindings, k.Pause, k.Reset, k.Toggle, k.Quit)
}

func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		append(append([]key.Binding{}, k.Presets...), k.Pause, k.Reset),
		{k.Quit},
	}
}

// ── messages ─────────────────────────────────────────────────────────────────

// timerEventMsg carries one event from the timer session.
type timerEventMsg struct {
	event timer.Event
}

// timerClosedMsg signals that the session's event channel was closed.
type timerClosedMsg struct{}

// tasksChangedMsg signals that the task file changed on disk.
type tasksChangedMsg struct{}

// dashboardLoadedMsg carries the checklist and the weekly summary.
type dashboardLoadedMsg struct {
	data *api.DashboardData
	err  error
}

// summaryLoadedMsg carries a recomputed weekly summary.
type summaryLoadedMsg struct {
	summary *domain.WeeklySummary
	err     error
}

// ── styles ───────────────────────────────────────────────────────────────────

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	clockStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// ── model ────────────────────────────────────────────────────────────────────

// dashboardModel is the bubbletea model for the interactive dashboard: the
// task checklist, the countdown and the weekly summary line.
type dashboardModel struct {
	app     *App
	session *timer.Session
	changes chan struct{}
	feed    *changeFeed
	keys    dashboardKeyMap
	help    help.Model
	presets []int
	mode    domain.SummaryMode

	tasks   []domain.Task
	cursor  int
	summary domain.WeeklySummary
	timer   domain.TimerState
	status  string
	err     error
}

// newDashboardModel wires the model to session and, when trigger is not nil,
// reloads the checklist whenever the trigger fires.
func newDashboardModel(app *App, session *timer.Session, trigger watch.Trigger) dashboardModel {
	m := dashboardModel{
		app:     app,
		session: session,
		keys:    newDashboardKeyMap(app.config.Timer.Presets),
		help:    help.New(),
		presets: app.config.Timer.Presets,
		mode:    app.config.GetSummaryMode(),
		timer:   session.State(),
	}
	if trigger != nil {
		m.feed = newChangeFeed()
		m.changes = m.feed.ch
		trigger.OnChange(m.feed.notify)
	}
	return m
}

// stopWatching closes the change channel so a pending waitForChange returns.
// Triggers that fire afterwards are ignored.
func (m dashboardModel) stopWatching() {
	if m.feed != nil {
		m.feed.close()
	}
}

// changeFeed coalesces trigger callbacks into a one-slot channel that can be
// closed while the trigger is still running.
type changeFeed struct {
	mu     sync.Mutex
	ch     chan struct{}
	closed bool
}

func newChangeFeed() *changeFeed {
	return &changeFeed{ch: make(chan struct{}, 1)}
}

func (f *changeFeed) notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- struct{}{}:
	default:
	}
}

func (f *changeFeed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.load(), waitForTimerEvent(m.session.Events()), waitForChange(m.changes))
}

// load reads the checklist and the weekly summary
func (m dashboardModel) load() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), app.timeout())
		defer cancel()

		data, err := app.api.Dashboard(ctx)
		return dashboardLoadedMsg{data: data, err: err}
	}
}

// loadSummary recomputes the weekly summary after a session is logged
func (m dashboardModel) loadSummary() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), app.timeout())
		defer cancel()

		summary, err := app.api.WeeklySummary(ctx)
		return summaryLoadedMsg{summary: summary, err: err}
	}
}

// waitForTimerEvent blocks on the next timer event
func waitForTimerEvent(events <-chan timer.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return timerClosedMsg{}
		}
		return timerEventMsg{event: ev}
	}
}

// waitForChange blocks until the task file changes
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return tasksChangedMsg{}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case timerEventMsg:
		return m.handleTimerEvent(msg.event)

	case timerClosedMsg:
		return m, nil

	case tasksChangedMsg:
		m.status = "Task file changed, reloaded"
		return m, tea.Batch(m.load(), waitForChange(m.changes))

	case dashboardLoadedMsg:
		if msg.data != nil {
			m.tasks = msg.data.Tasks
			if msg.err == nil {
				m.summary = msg.data.Summary
			}
			m.clampCursor()
		}
		m.err = msg.err
		return m, nil

	case summaryLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.summary = *msg.summary
		return m, nil
	}
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(m.tasks) {
			// copy so earlier model values keep their own checklist
			tasks := append([]domain.Task(nil), m.tasks...)
			tasks[m.cursor].Toggle()
			m.tasks = tasks
		}

	case key.Matches(msg, m.keys.Pause):
		if err := m.session.Toggle(); err != nil {
			m.err = err
		}
		m.timer = m.session.State()

	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.timer = m.session.State()
		m.status = "Timer reset, nothing logged"

	default:
		for i, b := range m.keys.Presets {
			if key.Matches(msg, b) {
				return m.startPreset(i)
			}
		}
	}
	return m, nil
}

func (m dashboardModel) startPreset(i int) (tea.Model, tea.Cmd) {
	if m.session.State().Running {
		m.status = "Timer already running"
		return m, nil
	}
	minutes := m.presets[i]
	if err := m.session.Start(minutes); err != nil {
		m.err = err
		return m, nil
	}
	m.timer = m.session.State()
	m.status = fmt.Sprintf("Started a %d minute session", minutes)
	m.err = nil
	return m, nil
}

func (m dashboardModel) handleTimerEvent(ev timer.Event) (tea.Model, tea.Cmd) {
	m.timer = ev.State
	next := waitForTimerEvent(m.session.Events())

	if ev.Kind != timer.EventCompleted {
		return m, next
	}
	if ev.Err != nil {
		m.err = fmt.Errorf("session completed but was not logged: %w", ev.Err)
		m.status = ""
		return m, next
	}
	m.status = fmt.Sprintf("Session complete, %d minutes logged", ev.State.TotalDurationMinutes)
	m.err = nil
	return m, tea.Batch(next, m.loadSummary())
}

func (m *dashboardModel) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Discipline Dashboard"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Tasks"))
	b.WriteString("\n")
	if len(m.tasks) == 0 {
		b.WriteString(dimStyle.Render("  no tasks"))
		b.WriteString("\n")
	}
	for i, task := range m.tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		box, text := "[ ]", task.Text
		if task.Completed {
			box, text = "[x]", doneStyle.Render(task.Text)
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, box, text)
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Timer"))
	b.WriteString("  ")
	b.WriteString(clockStyle.Render(m.timer.Display()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(m.timerLabel()))
	b.WriteString("\n\n")

	b.WriteString(m.summary.Headline(m.mode))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + userMessage(m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m dashboardModel) timerLabel() string {
	status := m.timer.Status()
	if status == domain.TimerIdle {
		return status.String()
	}
	return fmt.Sprintf("%s (%d min)", status, m.timer.TotalDurationMinutes)
}

// ── command ──────────────────────────────────────────────────────────────────

// DashboardCommand runs the interactive dashboard
type DashboardCommand struct {
	app *App
	api api.API
}

// NewDashboardCommand creates a new dashboard command handler
func NewDashboardCommand(app *App) *DashboardCommand {
	return &DashboardCommand{app: app, api: app.api}
}

// Execute runs the dashboard until the user quits. Without a terminal it
// prints the weekly summary instead. Quitting discards a running session.
func (c *DashboardCommand) Execute(ctx context.Context, args []string) error {
	if !c.app.isInteractive() {
		summary := NewSummaryCommand(c.app)
		summary.Weeks = 1
		return summary.Execute(ctx, args)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := c.app.newSession(c.api)
	defer session.Close()

	var trigger watch.Trigger
	cfg := c.app.config
	if cfg.Watch.Enabled {
		poller := watch.NewPoller(cfg.TaskFilePath(), cfg.Watch.Interval, watch.WithLogger(c.app.logger))
		trigger = poller
		go poller.Run(ctx)
	}

	model := newDashboardModel(c.app, session, trigger)
	defer model.stopWatching()
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(c.app.in),
		tea.WithOutput(c.app.out),
	)
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
