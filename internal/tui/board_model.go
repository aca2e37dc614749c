package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/szahir/taskboard/internal/board"
	"github.com/szahir/taskboard/internal/client"
	"github.com/szahir/taskboard/internal/model"
)

// boardMode is what the board screen is currently showing.
type boardMode int

const (
	modeBoard boardMode = iota
	modeForm
	modeDetail
	modeConfirmDelete
)

// Async result messages. Every message carries the generation it was
// issued under; responses from a previous session or reload are discarded.
type (
	tasksLoadedMsg struct {
		gen int
		err error
	}
	moveDoneMsg struct {
		gen    int
		result board.MoveResult
		err    error
	}
	saveDoneMsg struct {
		gen  int
		edit bool
		err  error
	}
	deleteDoneMsg struct {
		gen int
		err error
	}
	// sessionExpiredMsg tells the root model to tear the session down.
	sessionExpiredMsg struct{}
	// logoutRequestedMsg tells the root model to log out deliberately.
	logoutRequestedMsg struct{}
)

// grabbedTask tracks a keyboard drag in progress.
type grabbedTask struct {
	id     string
	source board.Column
	index  int
	// view is the projection the drag started against; drop indexes
	// address this snapshot, not whatever renders later.
	view board.Snapshot
}

// BoardModel is the three-column board screen.
type BoardModel struct {
	api   *client.Client
	cache *board.Cache
	rec   *board.Reconciler

	width  int
	height int

	view    board.Snapshot
	sortKey board.SortKey
	search  string

	focusCol     board.Column
	selected     [3]int
	grabbed      *grabbedTask
	searchActive bool

	mode      boardMode
	form      TaskFormModel
	detail    model.Task
	confirmID string

	loading bool
	busy    bool
	spin    spinner.Model
	gen     int
	notice  string
}

// boardGen increments per board instance so responses addressed to a
// torn-down board never match a later one. Only touched on the UI
// goroutine.
var boardGen int

// NewBoardModel creates the board screen for an authenticated client.
func NewBoardModel(api *client.Client) BoardModel {
	cache := board.NewCache()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	boardGen++
	return BoardModel{
		api:     api,
		cache:   cache,
		rec:     board.NewReconciler(api, cache),
		sortKey: board.SortRecent,
		loading: true,
		spin:    sp,
		gen:     boardGen,
	}
}

func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadTasks())
}

func (m BoardModel) loadTasks() tea.Cmd {
	gen := m.gen
	cache, api := m.cache, m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := cache.Load(ctx, api)
		return tasksLoadedMsg{gen: gen, err: err}
	}
}

// reproject recomputes the board view from the cache and clamps the
// per-column selections.
func (m BoardModel) reproject() BoardModel {
	m.view = board.Project(m.cache.Tasks(), m.search, m.sortKey, time.Now())
	for col := board.ColumnToDo; col <= board.ColumnDone; col++ {
		n := len(m.view.Tasks(col))
		if m.selected[col] >= n {
			m.selected[col] = n - 1
		}
		if m.selected[col] < 0 {
			m.selected[col] = 0
		}
	}
	return m
}

func (m BoardModel) Update(msg tea.Msg) (BoardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tasksLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, board.ErrAuth) {
				return m, func() tea.Msg { return sessionExpiredMsg{} }
			}
			m.notice = "failed to load tasks: " + noticeText(msg.err)
			return m, nil
		}
		return m.reproject(), nil

	case moveDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			return m.mutationFailed(msg.err)
		}
		m.notice = msg.result.Notice
		return m.reproject(), nil

	case saveDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			return m.mutationFailed(msg.err)
		}
		if msg.edit {
			m.notice = "task updated"
		} else {
			m.notice = "task created"
		}
		return m.reproject(), nil

	case deleteDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			return m.mutationFailed(msg.err)
		}
		m.notice = "task deleted"
		return m.reproject(), nil

	case formSubmitMsg:
		m.mode = modeBoard
		return m.saveTask(msg.task, msg.edit)

	case formCancelMsg:
		m.mode = modeBoard
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

// mutationFailed maps a reconciler error onto the status line; an auth
// failure escalates to session teardown instead.
func (m BoardModel) mutationFailed(err error) (BoardModel, tea.Cmd) {
	if errors.Is(err, board.ErrAuth) {
		return m, func() tea.Msg { return sessionExpiredMsg{} }
	}
	m.notice = noticeText(err)
	// The cache never changes on failure, but a remote delete may have
	// converged it; reproject either way.
	return m.reproject(), nil
}

func noticeText(err error) string {
	switch {
	case errors.Is(err, board.ErrMoveInFlight):
		return "that task has a change in flight, hold on"
	case errors.Is(err, board.ErrUnavailable):
		return "server unavailable"
	case errors.Is(err, board.ErrNotFound):
		return "task no longer exists"
	case errors.Is(err, board.ErrInvalid):
		return "the server rejected that change"
	default:
		return err.Error()
	}
}

func (m BoardModel) handleKey(msg tea.KeyMsg) (BoardModel, tea.Cmd) {
	switch m.mode {
	case modeForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd

	case modeDetail:
		switch msg.String() {
		case "esc", "enter", "q":
			m.mode = modeBoard
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case modeConfirmDelete:
		switch msg.String() {
		case "y", "enter":
			m.mode = modeBoard
			return m.deleteTask(m.confirmID)
		case "n", "esc":
			m.mode = modeBoard
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.searchActive {
		return m.handleSearchKey(msg)
	}

	if m.busy {
		// One mutation at a time from the keyboard; navigation stays live.
		switch msg.String() {
		case " ", "enter", "g", "a", "e", "d", "r":
			m.notice = "working..."
			return m, nil
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		if m.grabbed != nil {
			// Drop outside any column: the gesture dissolves.
			m.grabbed = nil
			m.notice = ""
			return m, nil
		}
		return m, tea.Quit

	case "left", "h":
		if m.focusCol > board.ColumnToDo {
			m.focusCol--
			m = m.clampSelection()
		}
		return m, nil

	case "right", "l":
		if m.focusCol < board.ColumnDone {
			m.focusCol++
			m = m.clampSelection()
		}
		return m, nil

	case "up", "k":
		if m.selected[m.focusCol] > 0 {
			m.selected[m.focusCol]--
		}
		return m, nil

	case "down", "j":
		if m.selected[m.focusCol] < len(m.view.Tasks(m.focusCol))-1 {
			m.selected[m.focusCol]++
		}
		return m, nil

	case " ", "enter":
		if m.grabbed != nil {
			return m.dropGrabbed()
		}
		if msg.String() == "enter" {
			if task, ok := m.selectedTask(); ok {
				m.detail = task
				m.mode = modeDetail
			}
			return m, nil
		}
		return m.grabSelected(), nil

	case "g":
		if m.grabbed == nil {
			return m.grabSelected(), nil
		}
		return m, nil

	case "/":
		m.searchActive = true
		m.notice = ""
		return m, nil

	case "s":
		if m.sortKey == board.SortRecent {
			m.sortKey = board.SortAlphabetical
		} else {
			m.sortKey = board.SortRecent
		}
		return m.reproject(), nil

	case "a":
		m.form = NewTaskFormModel()
		m.mode = modeForm
		return m, m.form.Init()

	case "e":
		if task, ok := m.selectedTask(); ok {
			m.form = NewEditTaskFormModel(task)
			m.mode = modeForm
			return m, m.form.Init()
		}
		return m, nil

	case "d":
		if task, ok := m.selectedTask(); ok {
			m.confirmID = task.ID
			m.mode = modeConfirmDelete
		}
		return m, nil

	case "r":
		// Bump the generation so responses from before the reload are
		// discarded when they land.
		boardGen++
		m.gen = boardGen
		m.loading = true
		m.notice = ""
		return m, tea.Batch(m.spin.Tick, m.loadTasks())

	case "ctrl+o":
		return m, func() tea.Msg { return logoutRequestedMsg{} }
	}

	return m, nil
}

func (m BoardModel) handleSearchKey(msg tea.KeyMsg) (BoardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchActive = false
		m.search = ""
		return m.reproject(), nil

	case "enter":
		m.searchActive = false
		return m, nil

	case "backspace":
		if len(m.search) > 0 {
			m.search = m.search[:len(m.search)-1]
		}
		return m.reproject(), nil

	case "ctrl+c":
		return m, tea.Quit

	default:
		if msg.Type == tea.KeyRunes {
			m.search += string(msg.Runes)
			return m.reproject(), nil
		}
		return m, nil
	}
}

func (m BoardModel) clampSelection() BoardModel {
	n := len(m.view.Tasks(m.focusCol))
	if m.selected[m.focusCol] >= n {
		m.selected[m.focusCol] = n - 1
	}
	if m.selected[m.focusCol] < 0 {
		m.selected[m.focusCol] = 0
	}
	return m
}

func (m BoardModel) selectedTask() (model.Task, bool) {
	tasks := m.view.Tasks(m.focusCol)
	i := m.selected[m.focusCol]
	if i < 0 || i >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[i], true
}

func (m BoardModel) grabSelected() BoardModel {
	task, ok := m.selectedTask()
	if !ok {
		return m
	}
	m.grabbed = &grabbedTask{
		id:     task.ID,
		source: m.focusCol,
		index:  m.selected[m.focusCol],
		view:   m.view,
	}
	m.notice = ""
	return m
}

func (m BoardModel) dropGrabbed() (BoardModel, tea.Cmd) {
	grab := m.grabbed
	m.grabbed = nil

	dest := m.focusCol
	gesture := board.Gesture{
		Source:      grab.source,
		SourceIndex: grab.index,
		Dest:        &dest,
		DestIndex:   m.selected[dest],
	}

	m.busy = true
	gen := m.gen
	rec := m.rec
	view := grab.view
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		result, err := rec.Move(ctx, view, gesture)
		return moveDoneMsg{gen: gen, result: result, err: err}
	}
}

func (m BoardModel) saveTask(task model.Task, edit bool) (BoardModel, tea.Cmd) {
	m.busy = true
	gen := m.gen
	rec := m.rec
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		var err error
		if edit {
			_, err = rec.Edit(ctx, task)
		} else {
			_, err = rec.Create(ctx, task)
		}
		return saveDoneMsg{gen: gen, edit: edit, err: err}
	}
}

func (m BoardModel) deleteTask(id string) (BoardModel, tea.Cmd) {
	m.busy = true
	gen := m.gen
	rec := m.rec
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := rec.Delete(ctx, id)
		return deleteDoneMsg{gen: gen, err: err}
	}
}

// --- rendering ---

var columnTitles = map[board.Column]string{
	board.ColumnToDo:       "To Do",
	board.ColumnInProgress: "In Progress",
	board.ColumnDone:       "Done",
}

func (m BoardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.loading {
		msg := m.spin.View() + " Loading your board..."
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}

	switch m.mode {
	case modeForm:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.View())
	case modeDetail:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderDetail())
	case modeConfirmDelete:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderConfirm())
	}

	header := m.renderHeader()

	var body string
	switch m.view.State {
	case board.ViewEmpty:
		body = m.renderCenteredMessage("No tasks yet — press a to add one")
	case board.ViewNoResults:
		body = m.renderCenteredMessage(fmt.Sprintf("No tasks match %q", m.search))
	default:
		colWidth := (m.width - 6) / 3
		columns := make([]string, 0, 3)
		for col := board.ColumnToDo; col <= board.ColumnDone; col++ {
			columns = append(columns, m.renderColumn(col, colWidth))
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	}

	var statusBar string
	if m.searchActive {
		statusBar = m.renderSearchBar()
	} else {
		statusBar = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		statusBar,
	)
}

func (m BoardModel) renderHeader() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true)

	counts := m.view.Counts
	statsStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	stats := fmt.Sprintf("%d tasks · %d to do · %d in progress · %d done",
		counts.Total, counts.ToDo, counts.InProgress, counts.Done)
	if counts.Overdue > 0 {
		overdue := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			Render(fmt.Sprintf("%d overdue", counts.Overdue))
		stats += " · " + overdue
	}

	sortLabel := "recent"
	if m.sortKey == board.SortAlphabetical {
		sortLabel = "a-z"
	}
	sortStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))

	line := logoStyle.Render("taskboard") + "  " +
		statsStyle.Render(stats) + "  " +
		sortStyle.Render("sort: "+sortLabel)
	if m.search != "" && !m.searchActive {
		line += "  " + sortStyle.Render(fmt.Sprintf("filter: %q", m.search))
	}
	if m.notice != "" {
		line += "  " + lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)).
			Render("⚠ "+m.notice)
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(line)
}

func (m BoardModel) renderColumn(col board.Column, width int) string {
	var b strings.Builder

	tasks := m.view.Tasks(col)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", columnTitles[col], len(tasks))))
	b.WriteString("\n\n")

	if len(tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true)
		b.WriteString(emptyStyle.Render("nothing here"))
		b.WriteString("\n")
	}

	for i, task := range tasks {
		isSelected := col == m.focusCol && i == m.selected[col]
		isGrabbed := m.grabbed != nil && m.grabbed.id == task.ID
		b.WriteString(m.renderCard(task, width-4, isSelected, isGrabbed))
		b.WriteString("\n")
	}

	borderColor := ColorBorder
	if col == m.focusCol {
		borderColor = ColorBorderFocus
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Width(width).
		Padding(0, 1).
		Render(b.String())
}

func (m BoardModel) renderCard(task model.Task, width int, selected, grabbed bool) string {
	title := task.Title
	if len(title) > width-2 && width > 5 {
		title = title[:width-5] + "..."
	}

	var meta []string
	switch task.Priority {
	case model.TaskPriorityHigh:
		meta = append(meta, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("high"))
	case model.TaskPriorityLow:
		meta = append(meta, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render("low"))
	default:
		meta = append(meta, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render("medium"))
	}
	if task.DueDate != nil {
		meta = append(meta, renderDueBadge(task, time.Now()))
	}

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	if grabbed {
		titleStyle = titleStyle.Bold(true).Foreground(lipgloss.Color(ColorWarning))
		title = "⇅ " + title
	}

	content := titleStyle.Render(title) + "\n" + strings.Join(meta, " · ")

	if selected {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccentMain)).
			Padding(0, 1).
			Render(content)
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(content)
}

func renderDueBadge(task model.Task, now time.Time) string {
	if board.IsOverdue(task, now) {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			Render("OVERDUE")
	}

	days := int(task.DueDate.Sub(now).Hours() / 24)
	var text string
	switch {
	case days == 0:
		text = "today"
	case days == 1:
		text = "tomorrow"
	case days <= 7:
		text = fmt.Sprintf("%dd", days)
	default:
		text = task.DueDate.Format("Jan 2")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render(text)
}

func (m BoardModel) renderDetail() string {
	var b strings.Builder
	task := m.detail

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText))
	b.WriteString(titleStyle.Render(task.Title))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	b.WriteString(labelStyle.Render("Status: "))
	b.WriteString(string(task.Status))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Priority: "))
	b.WriteString(string(task.Priority))
	b.WriteString("\n")
	if task.DueDate != nil {
		b.WriteString(labelStyle.Render("Due: "))
		b.WriteString(task.DueDate.Format("2006-01-02"))
		if board.IsOverdue(task, time.Now()) {
			b.WriteString(" ")
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Bold(true).Render("OVERDUE"))
		}
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("Created: "))
	b.WriteString(task.CreatedAt.Format("2006-01-02 15:04"))
	b.WriteString("\n")

	if task.Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Width(56).
			Render(task.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render("esc back"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 3).
		Render(b.String())
}

func (m BoardModel) renderConfirm() string {
	task, _ := m.cache.Get(m.confirmID)
	prompt := fmt.Sprintf("Delete %q?", task.Title)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Render(prompt))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render("y delete · n cancel"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorError)).
		Padding(1, 3).
		Render(b.String())
}

func (m BoardModel) renderCenteredMessage(text string) string {
	msgStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true)
	height := m.height - 4
	if height < 3 {
		height = 3
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msgStyle.Render(text))
}

func (m BoardModel) renderSearchBar() string {
	searchStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Width(m.width - 2)
	return searchStyle.Render("Search: " + m.search + "█")
}

func (m BoardModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	var helpText string
	if m.grabbed != nil {
		helpText = "←/→ choose column · space/enter drop · esc cancel"
	} else {
		helpText = "←/→ columns · ↑/↓ nav · space grab · enter detail · a add · e edit · d delete · / search · s sort · r reload · q quit"
	}
	return helpStyle.Render(helpText)
}
