// Package ui provides the optional terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mslade/todos/internal/config"
	"github.com/mslade/todos/internal/logging"
	"github.com/mslade/todos/internal/query"
	"github.com/mslade/todos/internal/store"
	"github.com/mslade/todos/internal/task"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// RunTUI starts the terminal UI over the configured store file.
func RunTUI(ctx context.Context, cfg *config.Config) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	program := tea.NewProgram(newModel(cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// IsTTY reports whether w is attached to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}

type model struct {
	cfg       *config.Config
	storePath string

	tasks   []task.Task
	loadErr error

	statusFilter   task.Status
	priorityFilter task.Priority

	searching bool
	search    textinput.Model

	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func newModel(cfg *config.Config) *model {
	search := textinput.New()
	search.Placeholder = "search title or description"
	search.Prompt = "/ "
	search.CharLimit = 80

	return &model{
		cfg:          cfg,
		storePath:    cfg.StoreFile,
		search:       search,
		tickInterval: time.Second,
	}
}

func (m *model) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "/":
			m.searching = true
			m.search.Focus()
			return m, textinput.Blink
		case "esc":
			m.statusFilter = ""
			m.priorityFilter = ""
			m.search.SetValue("")
			return m, nil
		case "1":
			m.statusFilter = task.StatusPending
			return m, nil
		case "2":
			m.statusFilter = task.StatusCompleted
			return m, nil
		case "0":
			m.statusFilter = ""
			return m, nil
		case "p":
			m.priorityFilter = nextPriority(m.priorityFilter)
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

// updateSearch handles keys while the search input is focused.
func (m *model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Todos") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading store file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b)
		return b.String()
	}

	stats := query.Statistics(m.tasks)
	b.WriteString(fmt.Sprintf("Pending: %d  Completed: %d  Total: %d\n\n",
		stats.Pending, stats.Completed, stats.Total))

	if line := m.filterLine(); line != "" {
		b.WriteString(filterStyle.Render(line) + "\n\n")
	}

	visible := m.visibleTasks()
	if len(visible) == 0 {
		b.WriteString("No tasks.\n")
	}
	today := time.Now().Format("2006-01-02")
	for _, t := range visible {
		b.WriteString(renderTask(t, today) + "\n")
	}
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.search.View() + "\n\n")
	}

	writeFooter(&b)
	return b.String()
}

// visibleTasks applies the active search and filters in order.
func (m *model) visibleTasks() []task.Task {
	tasks := m.tasks
	if q := m.search.Value(); q != "" {
		tasks = query.Search(tasks, q)
	}
	return query.List(tasks, query.Filter{
		Status:   m.statusFilter,
		Priority: m.priorityFilter,
	})
}

func (m *model) filterLine() string {
	var parts []string
	if m.statusFilter != "" {
		parts = append(parts, fmt.Sprintf("status=%s", m.statusFilter))
	}
	if m.priorityFilter != "" {
		parts = append(parts, fmt.Sprintf("priority=%s", m.priorityFilter))
	}
	if q := m.search.Value(); q != "" && !m.searching {
		parts = append(parts, fmt.Sprintf("search=%q", q))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Filter: " + strings.Join(parts, "  ") + " (esc to clear)"
}

func (m *model) refresh() {
	f, err := store.Load(m.storePath, logging.Discard())
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.tasks = f.Tasks
}

func renderTask(t task.Task, today string) string {
	statusIcon := "⏳"
	if t.Status == task.StatusCompleted {
		statusIcon = "✅"
	}

	priorityIcon := "🟡"
	switch t.Priority {
	case task.PriorityHigh:
		priorityIcon = "🔴"
	case task.PriorityLow:
		priorityIcon = "🟢"
	}

	line := fmt.Sprintf("  %s %s %d. %s", statusIcon, priorityIcon, t.ID, t.Title)
	if t.DueDate != "" {
		due := "due " + t.DueDate
		if t.Status == task.StatusPending && t.DueDate < today {
			due = overdueStyle.Render(due)
		}
		line += "  (" + due + ")"
	}
	if t.Status == task.StatusCompleted {
		return completedStyle.Render(line)
	}
	return line
}

func nextPriority(p task.Priority) task.Priority {
	switch p {
	case "":
		return task.PriorityHigh
	case task.PriorityHigh:
		return task.PriorityMedium
	case task.PriorityMedium:
		return task.PriorityLow
	default:
		return ""
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keys\n\n")
	b.WriteString("  1       show pending only\n")
	b.WriteString("  2       show completed only\n")
	b.WriteString("  0       clear status filter\n")
	b.WriteString("  p       cycle priority filter\n")
	b.WriteString("  /       search\n")
	b.WriteString("  esc     clear filters and search\n")
	b.WriteString("  r, f5   refresh\n")
	b.WriteString("  h, ?    toggle this help\n")
	b.WriteString("  q       quit\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(helpStyle.Render("1/2/0 filter status · p filter priority · / search · ? help · q quit"))
	b.WriteString("\n")
}
