package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	taskdto "tempo/internal/modules/tasks/dto"
	"tempo/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TaskPort interface {
	List(ctx context.Context) ([]taskdto.TaskOutput, error)
	Delete(ctx context.Context, taskID int) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type TasksLoadedMsg struct {
	Tasks []taskdto.TaskOutput
	Err   error
}

type TaskDeletedMsg struct {
	TaskID int
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type taskItem struct {
	task taskdto.TaskOutput
}

func (i taskItem) Title() string { return i.task.Title }
func (i taskItem) Description() string {
	return fmt.Sprintf("%s  %dm  due %s", i.task.Status, i.task.DurationMinutes,
		i.task.Deadline.Format("2006-01-02"))
}
func (i taskItem) FilterValue() string { return i.task.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    TaskPort
	list    list.Model
	spinner spinner.Model
	loading bool
	errText string
	width   int
	height  int
}

func New(port TaskPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Tasks"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the task list again. The app model issues it after task:add.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.port.List(context.Background())
		return TasksLoadedMsg{Tasks: tasks, Err: err}
	}
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case TasksLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		items := make([]list.Item, len(msg.Tasks))
		for i, t := range msg.Tasks {
			items[i] = taskItem{task: t}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case TaskDeletedMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		cmds = append(cmds, m.Reload())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if !m.Filtering() && msg.String() == "d" {
			if item, ok := m.list.SelectedItem().(taskItem); ok {
				cmds = append(cmds, m.deleteCmd(item.task.ID))
			}
			return m, tea.Batch(cmds...)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading tasks…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Padding(1).
		Render(m.renderDetail())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	m.list.SetSize(listW, m.height)
}

func (m Model) renderDetail() string {
	if m.errText != "" {
		return lipgloss.NewStyle().Foreground(theme.Red).Render(m.errText)
	}
	item, ok := m.list.SelectedItem().(taskItem)
	if !ok {
		return theme.Muted.Render("No tasks yet. Use the palette: task:add")
	}
	t := item.task

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(t.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:        ") + fmt.Sprintf("%d", t.ID) + "\n")
	sb.WriteString(theme.Muted.Render("status:    ") + t.Status + "\n")
	sb.WriteString(theme.Muted.Render("duration:  ") + fmt.Sprintf("%d min", t.DurationMinutes) + "\n")
	sb.WriteString(theme.Muted.Render("deadline:  ") + t.Deadline.Format("2006-01-02 15:04") + "\n")
	sb.WriteString(theme.Muted.Render("type:      ") + t.Type + "\n")
	sb.WriteString(theme.Muted.Render("important: ") + t.Importance + "\n")
	sb.WriteString(theme.Muted.Render("preferred: ") + t.PreferredTime + "\n")
	sb.WriteString(theme.Muted.Render("energy:    ") + t.Energy + "\n")
	if t.Description != "" {
		sb.WriteString("\n" + t.Description + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("d: delete"))
	return sb.String()
}

func (m Model) deleteCmd(taskID int) tea.Cmd {
	return func() tea.Msg {
		err := m.port.Delete(context.Background(), taskID)
		return TaskDeletedMsg{TaskID: taskID, Err: err}
	}
}
