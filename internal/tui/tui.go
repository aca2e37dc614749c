package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/szahir/taskboard/internal/client"
)

// screen is which top-level view the app is showing.
type screen int

const (
	screenAuth screen = iota
	screenBoard
)

// appModel is the root model: the auth screen until a session exists,
// then the board. An expired session drops back to auth.
type appModel struct {
	api    *client.Client
	screen screen
	auth   AuthModel
	board  BoardModel

	width  int
	height int
}

func newAppModel(api *client.Client) appModel {
	return appModel{
		api:    api,
		screen: screenAuth,
		auth:   NewAuthModel(api),
	}
}

func (m appModel) Init() tea.Cmd {
	return m.auth.Init()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Both screens need the size; fall through to the active one.

	case authResultMsg:
		if msg.err == nil {
			// Session cookie is now in the client's jar; switch to the
			// board and kick off the initial load.
			m.screen = screenBoard
			m.board = NewBoardModel(m.api)
			var cmd tea.Cmd
			m.board, cmd = m.board.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
			return m, tea.Batch(m.board.Init(), cmd)
		}

	case sessionExpiredMsg:
		m.screen = screenAuth
		m.auth = NewAuthModel(m.api)
		m.auth.validationErr = "session expired, log in again"
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		return m, tea.Batch(m.auth.Init(), cmd)

	case logoutRequestedMsg:
		api := m.api
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			// Best effort; the server clears the cookie regardless.
			_ = api.Logout(ctx)
		}()
		m.screen = screenAuth
		m.auth = NewAuthModel(m.api)
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		return m, tea.Batch(m.auth.Init(), cmd)
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenBoard:
		m.board, cmd = m.board.Update(msg)
	default:
		m.auth, cmd = m.auth.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	if m.screen == screenBoard {
		return m.board.View()
	}
	return m.auth.View()
}

// Run starts the interactive board against the given server.
func Run(serverURL string) error {
	api, err := client.New(serverURL)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newAppModel(api), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
