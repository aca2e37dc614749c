package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/szahir/taskboard/internal/board"
	"github.com/szahir/taskboard/internal/client"
)

// authMode selects between the login and signup forms.
type authMode int

const (
	authLogin authMode = iota
	authSignup
)

// field order within each form
const (
	authFieldFirstName = iota
	authFieldLastName
	authFieldEmail
	authFieldPassword
	authFieldCount
)

// authResultMsg is sent when a login or signup round trip finishes.
type authResultMsg struct {
	user client.User
	err  error
}

// AuthModel is the login/signup screen.
type AuthModel struct {
	api    *client.Client
	width  int
	height int

	mode    authMode
	inputs  []textinput.Model
	focused int

	submitting    bool
	validationErr string
}

// NewAuthModel creates the auth screen, starting in login mode.
func NewAuthModel(api *client.Client) AuthModel {
	inputs := make([]textinput.Model, authFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}

	inputs[authFieldFirstName].Placeholder = "First name"
	inputs[authFieldFirstName].CharLimit = 50
	inputs[authFieldLastName].Placeholder = "Last name"
	inputs[authFieldLastName].CharLimit = 50
	inputs[authFieldEmail].Placeholder = "Email"
	inputs[authFieldEmail].CharLimit = 100
	inputs[authFieldPassword].Placeholder = "Password"
	inputs[authFieldPassword].CharLimit = 100
	inputs[authFieldPassword].EchoMode = textinput.EchoPassword
	inputs[authFieldPassword].EchoCharacter = '•'

	m := AuthModel{
		api:    api,
		mode:   authLogin,
		inputs: inputs,
	}
	m.focused = m.firstField()
	m.inputs[m.focused].Focus()
	return m
}

// firstField returns the index of the first visible field for the mode.
func (m AuthModel) firstField() int {
	if m.mode == authSignup {
		return authFieldFirstName
	}
	return authFieldEmail
}

func (m AuthModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m AuthModel) Update(msg tea.Msg) (AuthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.validationErr = authErrorText(msg.err)
			return m, nil
		}
		// The root model consumes the success; nothing to do here.
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			// Ignore edits while a request is outstanding; still allow quit.
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			return m.toggleMode(), textinput.Blink

		case "up", "shift+tab":
			return m.focusField(-1), textinput.Blink

		case "down":
			return m.focusField(1), textinput.Blink

		case "enter":
			if m.focused < authFieldPassword {
				return m.focusField(1), textinput.Blink
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

// toggleMode switches between login and signup, preserving email/password.
func (m AuthModel) toggleMode() AuthModel {
	if m.mode == authLogin {
		m.mode = authSignup
	} else {
		m.mode = authLogin
	}
	m.validationErr = ""
	m.inputs[m.focused].Blur()
	m.focused = m.firstField()
	m.inputs[m.focused].Focus()
	return m
}

func (m AuthModel) focusField(delta int) AuthModel {
	first := m.firstField()
	next := m.focused + delta
	if next < first {
		next = first
	}
	if next > authFieldPassword {
		next = authFieldPassword
	}
	if next == m.focused {
		return m
	}
	m.inputs[m.focused].Blur()
	m.focused = next
	m.inputs[m.focused].Focus()
	return m
}

func (m AuthModel) submit() (AuthModel, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[authFieldEmail].Value())
	password := m.inputs[authFieldPassword].Value()

	if m.mode == authSignup {
		first := strings.TrimSpace(m.inputs[authFieldFirstName].Value())
		last := strings.TrimSpace(m.inputs[authFieldLastName].Value())
		if first == "" || last == "" || email == "" || password == "" {
			m.validationErr = "all fields are required"
			return m, nil
		}
		m.submitting = true
		m.validationErr = ""
		api := m.api
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			user, err := api.Signup(ctx, client.SignupParams{
				FirstName: first,
				LastName:  last,
				Email:     email,
				Password:  password,
			})
			return authResultMsg{user: user, err: err}
		}
	}

	if email == "" || password == "" {
		m.validationErr = "email and password are required"
		return m, nil
	}
	m.submitting = true
	m.validationErr = ""
	api := m.api
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		user, err := api.Login(ctx, client.LoginParams{Email: email, Password: password})
		return authResultMsg{user: user, err: err}
	}
}

func authErrorText(err error) string {
	switch {
	case errors.Is(err, board.ErrNotFound):
		return "no account with that email"
	case errors.Is(err, board.ErrAuth):
		return "wrong password"
	case errors.Is(err, board.ErrEmailTaken):
		return "that email is already registered"
	case errors.Is(err, board.ErrInvalid):
		return "all fields are required"
	case errors.Is(err, board.ErrUnavailable):
		return "server unavailable, try again"
	default:
		return err.Error()
	}
}

// View renders the auth form.
func (m AuthModel) View() string {
	var b strings.Builder

	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true)
	b.WriteString(logoStyle.Render("taskboard"))
	b.WriteString("\n\n")

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText))
	if m.mode == authLogin {
		b.WriteString(titleStyle.Render("Log in"))
	} else {
		b.WriteString(titleStyle.Render("Create an account"))
	}
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	if m.mode == authSignup {
		b.WriteString(labelStyle.Render("First name"))
		b.WriteString("\n")
		b.WriteString(m.inputs[authFieldFirstName].View())
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Last name"))
		b.WriteString("\n")
		b.WriteString(m.inputs[authFieldLastName].View())
		b.WriteString("\n\n")
	}
	b.WriteString(labelStyle.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.inputs[authFieldEmail].View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.inputs[authFieldPassword].View())
	b.WriteString("\n\n")

	if m.submitting {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Italic(true).
			Render("Signing in..."))
		b.WriteString("\n")
	} else if m.validationErr != "" {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Render("✗ " + m.validationErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)
	if m.mode == authLogin {
		b.WriteString(helpStyle.Render("enter submit · tab sign up instead · esc quit"))
	} else {
		b.WriteString(helpStyle.Render("enter submit · tab log in instead · esc quit"))
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 3)
	box := boxStyle.Render(b.String())

	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
