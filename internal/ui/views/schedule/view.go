package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	scheddomain "tempo/internal/modules/schedule/domain"
	scheddto "tempo/internal/modules/schedule/dto"
	"tempo/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SchedulePort interface {
	// WeekView lays out the current state without touching the network.
	WeekView(ctx context.Context, scale float64) (scheddto.WeekViewOutput, error)
	// WeekViewFor makes date current, loads it, and lays out its week.
	WeekViewFor(ctx context.Context, date string, scale float64) (scheddto.WeekViewOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type WeekLoadedMsg struct {
	Week scheddto.WeekViewOutput
	Err  error
}

// ─── model ───────────────────────────────────────────────────────────────────

const gutterWidth = 6

type Model struct {
	port    SchedulePort
	week    scheddto.WeekViewOutput
	date    string
	spinner spinner.Model
	loading bool
	errText string
	width   int
	height  int
}

func New(port SchedulePort, initialDate string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		date:    initialDate,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadForCmd(m.date), m.spinner.Tick)
}

// Date returns the currently selected day.
func (m Model) Date() string { return m.date }

// Reload re-lays-out the current state. The app model issues it after a
// palette command mutated the plan.
func (m Model) Reload() tea.Cmd { return m.loadCmd() }

// ReloadFor selects date and reloads. Used by plan:goto.
func (m *Model) ReloadFor(date string) tea.Cmd {
	m.date = date
	m.loading = true
	return tea.Batch(m.loadForCmd(date), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Block positions depend on the row scale, so relayout.
		return m, m.loadCmd()

	case WeekLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.week = msg.Week
		m.date = msg.Week.Date
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "h", "left":
			return m.shiftDays(-1)
		case "l", "right":
			return m.shiftDays(1)
		case "[":
			return m.shiftDays(-7)
		case "]":
			return m.shiftDays(7)
		case "t":
			return m.gotoDate(time.Now().Format("2006-01-02"))
		case "r":
			return m.gotoDate(m.date)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading schedule…")
	}
	if m.errText != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Red).Render(m.errText))
	}

	rows := m.gridRows()
	colW := m.columnWidth()
	columns := make([]string, 0, 8)
	columns = append(columns, m.renderGutter(rows))
	for _, day := range m.week.Days {
		columns = append(columns, m.renderDay(day, rows, colW))
	}
	grid := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	footer := theme.Muted.Render("h/l: day  [/]: week  t: today  r: refresh")
	return lipgloss.JoinVertical(lipgloss.Left, grid, footer)
}

// ─── private ─────────────────────────────────────────────────────────────────

// gridRows is the terminal height of the plotting window. The layout scale is
// derived from it so one hour maps to a whole number of rows when possible.
func (m Model) gridRows() int {
	rows := m.height - 3
	if rows < scheddomain.WindowHours {
		rows = scheddomain.WindowHours
	}
	return rows
}

func (m Model) scale() float64 {
	return float64(m.gridRows()) / float64(scheddomain.WindowHours)
}

func (m Model) columnWidth() int {
	w := (m.width - gutterWidth) / 7
	if w < 8 {
		w = 8
	}
	return w
}

func (m Model) renderGutter(rows int) string {
	lines := make([]string, rows+1)
	lines[0] = strings.Repeat(" ", gutterWidth)
	scale := m.scale()
	for hour := scheddomain.WindowStartHour; hour < scheddomain.WindowEndHour; hour++ {
		row := int(float64(hour-scheddomain.WindowStartHour)*scale) + 1
		if row >= len(lines) {
			break
		}
		lines[row] = theme.Muted.Render(time.Date(0, 1, 1, hour, 0, 0, 0, time.UTC).Format("15:04 "))
	}
	for i, l := range lines {
		if l == "" {
			lines[i] = strings.Repeat(" ", gutterWidth)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDay(day scheddto.DayColumnOutput, rows, colW int) string {
	selected := day.Date == m.date

	header := day.Date
	if t, err := time.Parse("2006-01-02", day.Date); err == nil {
		header = t.Format("Mon 02")
	}
	headStyle := theme.Muted
	if selected {
		headStyle = theme.Hot
	}

	lines := make([]string, rows)
	for _, b := range day.Blocks {
		start := int(b.Top + 0.5)
		span := int(b.Height + 0.5)
		if span < 1 {
			span = 1
		}
		style := theme.Block
		if selected {
			style = theme.BlockCurrent
		}
		for r := start; r < start+span && r < rows; r++ {
			text := ""
			if r == start {
				text = truncate(b.Title, colW-1)
			}
			lines[r] = style.Width(colW - 1).Render(text)
		}
	}
	for i, l := range lines {
		if l == "" {
			lines[i] = strings.Repeat(" ", colW)
		}
	}

	col := headStyle.Width(colW).Render(header) + "\n" + strings.Join(lines, "\n")
	return lipgloss.NewStyle().Width(colW).Render(col)
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max == 1 {
		return s[:1]
	}
	return s[:max-1] + "…"
}

func (m Model) shiftDays(delta int) (Model, tea.Cmd) {
	t, err := time.Parse("2006-01-02", m.date)
	if err != nil {
		t = time.Now()
	}
	return m.gotoDate(t.AddDate(0, 0, delta).Format("2006-01-02"))
}

func (m Model) gotoDate(date string) (Model, tea.Cmd) {
	m.date = date
	m.loading = true
	return m, tea.Batch(m.loadForCmd(date), m.spinner.Tick)
}

func (m Model) loadCmd() tea.Cmd {
	scale := m.scale()
	return func() tea.Msg {
		week, err := m.port.WeekView(context.Background(), scale)
		return WeekLoadedMsg{Week: week, Err: err}
	}
}

func (m Model) loadForCmd(date string) tea.Cmd {
	scale := m.scale()
	return func() tea.Msg {
		week, err := m.port.WeekViewFor(context.Background(), date, scale)
		return WeekLoadedMsg{Week: week, Err: err}
	}
}
