package notes

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	notedto "tempo/internal/modules/notes/dto"
	"tempo/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type NotePort interface {
	List(ctx context.Context) ([]notedto.NoteOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type NotesLoadedMsg struct {
	Notes []notedto.NoteOutput
	Err   error
}

// ─── list item ───────────────────────────────────────────────────────────────

type noteItem struct {
	note notedto.NoteOutput
}

func (i noteItem) Title() string       { return i.note.Title }
func (i noteItem) Description() string { return i.note.CreatedAt.Format("2006-01-02 15:04") }
func (i noteItem) FilterValue() string { return i.note.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    NotePort
	list    list.Model
	body    viewport.Model
	spinner spinner.Model
	loading bool
	errText string
	width   int
	height  int
}

func New(port NotePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Notes"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		body:    vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the notes again. The app model issues it after note:add.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		notes, err := m.port.List(context.Background())
		return NotesLoadedMsg{Notes: notes, Err: err}
	}
}

// Filtering reports whether the list's search filter is currently active.
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

	case NotesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		items := make([]list.Item, len(msg.Notes))
		for i, n := range msg.Notes {
			items[i] = noteItem{note: n}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.syncBody()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.syncBody()
		}

		var vCmd tea.Cmd
		m.body, vCmd = m.body.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading notes…")
	}

	listW := m.width * 4 / 10
	bodyW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	bodyPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(bodyW - 2).
		Height(m.height - 2).
		Render(m.body.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, bodyPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	bodyW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.body.Width = bodyW - 4
	m.body.Height = m.height - 4
}

func (m *Model) syncBody() {
	if m.errText != "" {
		m.body.SetContent(lipgloss.NewStyle().Foreground(theme.Red).Render(m.errText))
		return
	}
	item, ok := m.list.SelectedItem().(noteItem)
	if !ok {
		m.body.SetContent(theme.Muted.Render("No notes yet. Use the palette: note:add"))
		return
	}
	content := theme.Title.Render(item.note.Title) + "\n\n" + item.note.Body
	m.body.SetContent(content)
}
