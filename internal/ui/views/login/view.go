package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "tempo/internal/modules/auth/dto"
	"tempo/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AuthPort interface {
	Login(ctx context.Context, input authdto.LoginInput) (authdto.SessionOutput, error)
	SignupOrLogin(ctx context.Context, input authdto.SignupInput) (authdto.SessionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// LoggedInMsg reports the outcome of a submit. The app model flips into the
// main tabs when Err is nil.
type LoggedInMsg struct {
	Session authdto.SessionOutput
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

const (
	fieldEmail = iota
	fieldName
	fieldPassword
	fieldCount
)

type Model struct {
	port       AuthPort
	inputs     [fieldCount]textinput.Model
	focus      int
	spinner    spinner.Model
	submitting bool
	errText    string
	width      int
	height     int
}

func New(port AuthPort) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	name := textinput.New()
	name.Placeholder = "name (only for new accounts)"
	name.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		inputs:  [fieldCount]textinput.Model{email, name, password},
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case LoggedInMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("tempo") + "\n\n")
	labels := [fieldCount]string{"email    ", "name     ", "password "}
	for i, in := range m.inputs {
		sb.WriteString(theme.Muted.Render(labels[i]) + in.View() + "\n")
	}
	sb.WriteString("\n")
	switch {
	case m.submitting:
		sb.WriteString(m.spinner.View() + " signing in…")
	case m.errText != "":
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.Red).Render(m.errText))
	default:
		sb.WriteString(theme.Muted.Render("enter: log in (with a name: sign up)  tab: next field"))
	}

	card := theme.Pane.Width(56).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) setFocus(idx int) {
	m.inputs[m.focus].Blur()
	m.focus = idx
	m.inputs[m.focus].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	password := m.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		m.errText = "email and password are required"
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		if name != "" {
			session, err := m.port.SignupOrLogin(ctx, authdto.SignupInput{
				Email:    email,
				Name:     name,
				Password: password,
			})
			return LoggedInMsg{Session: session, Err: err}
		}
		session, err := m.port.Login(ctx, authdto.LoginInput{Email: email, Password: password})
		return LoggedInMsg{Session: session, Err: err}
	})
}
