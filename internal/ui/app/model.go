package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "tempo/internal/modules/auth/dto"
	exportdto "tempo/internal/modules/export/dto"
	notedto "tempo/internal/modules/notes/dto"
	plandto "tempo/internal/modules/planning/dto"
	scheddto "tempo/internal/modules/schedule/dto"
	taskdto "tempo/internal/modules/tasks/dto"
	apperrors "tempo/internal/platform/errors"
	"tempo/internal/ui/components"
	"tempo/internal/ui/theme"
	loginview "tempo/internal/ui/views/login"
	notesview "tempo/internal/ui/views/notes"
	scheduleview "tempo/internal/ui/views/schedule"
	tasksview "tempo/internal/ui/views/tasks"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type authPort interface {
	Login(ctx context.Context, input authdto.LoginInput) (authdto.SessionOutput, error)
	SignupOrLogin(ctx context.Context, input authdto.SignupInput) (authdto.SessionOutput, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (authdto.SessionOutput, error)
}

type planningPort interface {
	Generate(ctx context.Context) (plandto.PlanViewOutput, error)
	Reschedule(ctx context.Context, input plandto.RescheduleInput) (plandto.PlanViewOutput, error)
	Remove(ctx context.Context, planItemID int) (plandto.PlanViewOutput, error)
	RecordFeedback(ctx context.Context, input plandto.FeedbackInput) error
}

type schedulePort interface {
	WeekView(ctx context.Context, scale float64) (scheddto.WeekViewOutput, error)
	WeekViewFor(ctx context.Context, date string, scale float64) (scheddto.WeekViewOutput, error)
}

type taskPort interface {
	Create(ctx context.Context, input taskdto.CreateTaskInput) (taskdto.TaskOutput, error)
	List(ctx context.Context) ([]taskdto.TaskOutput, error)
	Delete(ctx context.Context, taskID int) error
}

type notePort interface {
	Create(ctx context.Context, input notedto.CreateNoteInput) (notedto.NoteOutput, error)
	List(ctx context.Context) ([]notedto.NoteOutput, error)
}

type exportPort interface {
	ExportDay(ctx context.Context, input exportdto.ExportInput) (exportdto.ExportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSchedule tabID = iota
	tabTasks
	tabNotes
	tabCount
)

var tabLabels = [tabCount]string{
	"Schedule", "Tasks", "Notes",
}

// ─── async messages ───────────────────────────────────────────────────────────

// SessionExpiredMsg is pushed into the program from outside when a token
// refresh ultimately fails. The holder is already cleared by then.
type SessionExpiredMsg struct{}

type sessionCheckedMsg struct {
	session authdto.SessionOutput
	err     error
}

type loggedOutMsg struct{ err error }

type taskCreatedMsg struct {
	task taskdto.TaskOutput
	err  error
}

type noteCreatedMsg struct {
	note notedto.NoteOutput
	err  error
}

type planMutatedMsg struct {
	label string
	err   error
}

type feedbackSentMsg struct{ err error }

type exportDoneMsg struct {
	path string
	err  error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding
	Gen     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		PrevDay: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/→", "prev/next day")),
		NextDay: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("←/→", "prev/next day")),
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Gen:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate plan")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.PrevDay, k.NextDay},
		{k.Today, k.Gen},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns the login gate, tab routing,
// the global help overlay, and the command palette. All business logic is
// delegated to port interfaces; all rendering is delegated to sub-views.
type Model struct {
	// ports used at this orchestration level only
	auth     authPort
	planning planningPort
	task     taskPort
	note     notePort
	export   exportPort

	// sub-views
	loginView loginview.Model
	schedView scheduleview.Model
	tasksView tasksview.Model
	notesView notesview.Model

	// global UI state
	authed    bool
	userEmail string
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	auth authPort,
	planning planningPort,
	schedule schedulePort,
	task taskPort,
	note notePort,
	export exportPort,
) Model {
	today := time.Now().Format("2006-01-02")
	return Model{
		auth:      auth,
		planning:  planning,
		task:      task,
		note:      note,
		export:    export,
		loginView: loginview.New(authPortBridge{p: auth}),
		schedView: scheduleview.New(schedulePortBridge{p: schedule}, today),
		tasksView: tasksview.New(taskPortBridge{p: task}),
		notesView: notesview.New(notePortBridge{p: note}),
		activeTab: tabSchedule,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loginView.Init(), m.checkSessionCmd())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case SessionExpiredMsg:
		m.authed = false
		m.status = "session expired, log in again"
		return m, nil

	case sessionCheckedMsg:
		if msg.err == nil && msg.session.Authenticated {
			m.authed = true
			m.userEmail = msg.session.User.Email
			m.status = "welcome back, " + msg.session.User.Email
			return m, m.initTabsCmd()
		}
		return m, nil

	case loginview.LoggedInMsg:
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err == nil {
			m.authed = true
			m.userEmail = msg.Session.User.Email
			m.status = "logged in as " + msg.Session.User.Email
			cmds = append(cmds, m.initTabsCmd())
		}
		return m, tea.Batch(cmds...)

	case loggedOutMsg:
		if msg.err != nil {
			m.status = "logout: " + msg.err.Error()
		} else {
			m.authed = false
			m.userEmail = ""
			m.status = "logged out"
		}
		return m, nil

	case taskCreatedMsg:
		if msg.err != nil {
			m.status = "task add: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("task %d created: %s", msg.task.ID, msg.task.Title)
		return m, m.tasksView.Reload()

	case noteCreatedMsg:
		if msg.err != nil {
			m.status = "note add: " + msg.err.Error()
			return m, nil
		}
		m.status = "note created: " + msg.note.Title
		return m, m.notesView.Reload()

	case planMutatedMsg:
		if msg.err != nil {
			m.status = msg.label + ": " + msg.err.Error()
			return m, nil
		}
		m.status = msg.label + " done"
		// The synchronizer already reloaded plan and calendar, so the
		// schedule view only needs a relayout.
		return m, m.schedView.Reload()

	case feedbackSentMsg:
		if msg.err != nil {
			m.status = "feedback: " + msg.err.Error()
		} else {
			m.status = "feedback recorded"
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = "export: " + msg.err.Error()
		} else {
			m.status = "exported to " + msg.path
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if !m.authed {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "g":
			if m.activeTab == tabSchedule {
				cmds = append(cmds, m.generateCmd())
				m.status = "generating plan for " + m.schedView.Date() + "…"
			}
		}
	}

	if !m.authed {
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabSchedule:
		m.schedView, tabCmd = m.schedView.Update(msg)
	case tabTasks:
		m.tasksView, tabCmd = m.tasksView.Update(msg)
	case tabNotes:
		m.notesView, tabCmd = m.notesView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.authed {
		return m.loginView.View()
	}

	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabSchedule:
		return m.schedView.View()
	case tabTasks:
		return m.tasksView.View()
	case tabNotes:
		return m.notesView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "tempo  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := theme.Hot.Render("● "+m.schedView.Date()) + "  " + m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "task:add":
		if len(parts) < 4 {
			m.status = "usage: task:add <minutes> <deadline> <title>"
			return m, nil
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid minutes"
			return m, nil
		}
		deadline, err := time.ParseInLocation("2006-01-02", parts[2], time.Local)
		if err != nil {
			m.status = "invalid deadline, expected yyyy-mm-dd"
			return m, nil
		}
		title := strings.TrimSpace(strings.TrimPrefix(input, parts[0]+" "+parts[1]+" "+parts[2]))
		return m, m.createTaskCmd(taskdto.CreateTaskInput{
			Title:           title,
			DurationMinutes: minutes,
			Deadline:        deadline.Add(24*time.Hour - time.Minute),
		})

	case "task:rm":
		if len(parts) < 2 {
			m.status = "usage: task:rm <id>"
			return m, nil
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid task id"
			return m, nil
		}
		m.activeTab = tabTasks
		return m, m.deleteTaskCmd(id)

	case "note:add":
		title := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if title == "" {
			m.status = "usage: note:add <title>"
			return m, nil
		}
		return m, m.createNoteCmd(title)

	case "plan:generate":
		m.status = "generating plan for " + m.schedView.Date() + "…"
		return m, m.generateCmd()

	case "plan:reschedule":
		if len(parts) < 4 {
			m.status = "usage: plan:reschedule <item> <hh:mm> <hh:mm>"
			return m, nil
		}
		itemID, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid item id"
			return m, nil
		}
		start, err1 := m.clockOnSelectedDay(parts[2])
		end, err2 := m.clockOnSelectedDay(parts[3])
		if err1 != nil || err2 != nil {
			m.status = "invalid time, expected hh:mm"
			return m, nil
		}
		return m, m.rescheduleCmd(plandto.RescheduleInput{
			PlanItemID: itemID,
			Start:      start,
			End:        end,
		})

	case "plan:remove":
		if len(parts) < 2 {
			m.status = "usage: plan:remove <item>"
			return m, nil
		}
		itemID, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid item id"
			return m, nil
		}
		return m, m.removeCmd(itemID)

	case "plan:feedback":
		if len(parts) < 3 {
			m.status = "usage: plan:feedback <task> <+1|-1> [note]"
			return m, nil
		}
		taskID, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid task id"
			return m, nil
		}
		outcome, err := strconv.Atoi(parts[2])
		if err != nil {
			m.status = "invalid outcome, expected +1 or -1"
			return m, nil
		}
		note := strings.TrimSpace(strings.TrimPrefix(input, parts[0]+" "+parts[1]+" "+parts[2]))
		return m, m.feedbackCmd(plandto.FeedbackInput{TaskID: taskID, Outcome: outcome, Note: note})

	case "plan:goto":
		if len(parts) < 2 {
			m.status = "usage: plan:goto <yyyy-mm-dd>"
			return m, nil
		}
		if _, err := time.Parse("2006-01-02", parts[1]); err != nil {
			m.status = "invalid date, expected yyyy-mm-dd"
			return m, nil
		}
		m.activeTab = tabSchedule
		return m, m.schedView.ReloadFor(parts[1])

	case "export:day":
		if len(parts) < 3 {
			m.status = "usage: export:day <exporter> <format>"
			return m, nil
		}
		return m, m.exportCmd(parts[1], parts[2])

	case "session:logout":
		return m, m.logoutCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabTasks:
		return m.tasksView.Filtering()
	case tabNotes:
		return m.notesView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	full := tea.WindowSizeMsg{Width: m.width, Height: m.height}
	m.loginView, _ = m.loginView.Update(full)

	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.schedView, _ = m.schedView.Update(sz)
	m.tasksView, _ = m.tasksView.Update(sz)
	m.notesView, _ = m.notesView.Update(sz)
}

func (m Model) initTabsCmd() tea.Cmd {
	return tea.Batch(
		m.schedView.Init(),
		m.tasksView.Init(),
		m.notesView.Init(),
	)
}

// clockOnSelectedDay combines an hh:mm string with the schedule view's
// selected date.
func (m Model) clockOnSelectedDay(clock string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", m.schedView.Date(), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) checkSessionCmd() tea.Cmd {
	return func() tea.Msg {
		session, err := m.auth.Current(context.Background())
		if err != nil && err != apperrors.ErrNotLoggedIn {
			return sessionCheckedMsg{err: err}
		}
		return sessionCheckedMsg{session: session, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.auth.Logout(context.Background())}
	}
}

func (m Model) createTaskCmd(input taskdto.CreateTaskInput) tea.Cmd {
	return func() tea.Msg {
		task, err := m.task.Create(context.Background(), input)
		return taskCreatedMsg{task: task, err: err}
	}
}

// deleteTaskCmd reuses the tasks view's own deletion message so the list
// reloads itself when the message reaches the active tab.
func (m Model) deleteTaskCmd(taskID int) tea.Cmd {
	return func() tea.Msg {
		err := m.task.Delete(context.Background(), taskID)
		return tasksview.TaskDeletedMsg{TaskID: taskID, Err: err}
	}
}

func (m Model) createNoteCmd(title string) tea.Cmd {
	return func() tea.Msg {
		note, err := m.note.Create(context.Background(), notedto.CreateNoteInput{Title: title})
		return noteCreatedMsg{note: note, err: err}
	}
}

func (m Model) generateCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.planning.Generate(context.Background())
		return planMutatedMsg{label: "generate", err: err}
	}
}

func (m Model) rescheduleCmd(input plandto.RescheduleInput) tea.Cmd {
	return func() tea.Msg {
		_, err := m.planning.Reschedule(context.Background(), input)
		return planMutatedMsg{label: "reschedule", err: err}
	}
}

func (m Model) removeCmd(planItemID int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.planning.Remove(context.Background(), planItemID)
		return planMutatedMsg{label: "remove", err: err}
	}
}

func (m Model) feedbackCmd(input plandto.FeedbackInput) tea.Cmd {
	return func() tea.Msg {
		return feedbackSentMsg{err: m.planning.RecordFeedback(context.Background(), input)}
	}
}

func (m Model) exportCmd(exporter, format string) tea.Cmd {
	date := m.schedView.Date()
	return func() tea.Msg {
		out, err := m.export.ExportDay(context.Background(), exportdto.ExportInput{
			Exporter: exporter,
			Format:   format,
			Date:     date,
		})
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := fmt.Sprintf("tempo-%s.%s", date, formatExtension(out.Format))
		if err := os.WriteFile(path, []byte(out.Document), 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

func formatExtension(format string) string {
	switch format {
	case "markdown":
		return "md"
	case "text":
		return "txt"
	default:
		return format
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view, keeping view packages free of knowledge about the wider
// port surface.

type authPortBridge struct{ p authPort }

func (b authPortBridge) Login(ctx context.Context, input authdto.LoginInput) (authdto.SessionOutput, error) {
	return b.p.Login(ctx, input)
}
func (b authPortBridge) SignupOrLogin(ctx context.Context, input authdto.SignupInput) (authdto.SessionOutput, error) {
	return b.p.SignupOrLogin(ctx, input)
}

type schedulePortBridge struct{ p schedulePort }

func (b schedulePortBridge) WeekView(ctx context.Context, scale float64) (scheddto.WeekViewOutput, error) {
	return b.p.WeekView(ctx, scale)
}
func (b schedulePortBridge) WeekViewFor(ctx context.Context, date string, scale float64) (scheddto.WeekViewOutput, error) {
	return b.p.WeekViewFor(ctx, date, scale)
}

type taskPortBridge struct{ p taskPort }

func (b taskPortBridge) List(ctx context.Context) ([]taskdto.TaskOutput, error) {
	return b.p.List(ctx)
}
func (b taskPortBridge) Delete(ctx context.Context, taskID int) error {
	return b.p.Delete(ctx, taskID)
}

type notePortBridge struct{ p notePort }

func (b notePortBridge) List(ctx context.Context) ([]notedto.NoteOutput, error) {
	return b.p.List(ctx)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
