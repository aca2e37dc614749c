package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/szahir/taskboard/internal/model"
)

// form field order
const (
	formFieldTitle = iota
	formFieldDescription
	formFieldPriority
	formFieldDueDate
	formFieldCount
)

// formSubmitMsg carries the assembled task out of the form. For edits the
// task keeps the original id and status so the save is a full-document
// replace of the same task.
type formSubmitMsg struct {
	task model.Task
	edit bool
}

// formCancelMsg is sent when the form is dismissed without saving.
type formCancelMsg struct{}

// TaskFormModel is the add/edit task form.
type TaskFormModel struct {
	inputs  []textinput.Model
	focused int

	editing  bool
	original model.Task

	validationErr string
}

// NewTaskFormModel creates an empty form for a new task.
func NewTaskFormModel() TaskFormModel {
	m := TaskFormModel{inputs: newFormInputs()}
	m.inputs[formFieldTitle].Focus()
	return m
}

// NewEditTaskFormModel creates a form pre-filled from an existing task.
func NewEditTaskFormModel(task model.Task) TaskFormModel {
	m := TaskFormModel{
		inputs:   newFormInputs(),
		editing:  true,
		original: task,
	}
	m.inputs[formFieldTitle].SetValue(task.Title)
	m.inputs[formFieldDescription].SetValue(task.Description)
	m.inputs[formFieldPriority].SetValue(string(task.Priority))
	if task.DueDate != nil {
		m.inputs[formFieldDueDate].SetValue(task.DueDate.Format("2006-01-02"))
	}
	m.inputs[formFieldTitle].Focus()
	return m
}

func newFormInputs() []textinput.Model {
	inputs := make([]textinput.Model, formFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 50
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}

	inputs[formFieldTitle].Placeholder = "Task title (required)"
	inputs[formFieldTitle].CharLimit = 200
	inputs[formFieldDescription].Placeholder = "Description (Enter to skip)"
	inputs[formFieldDescription].CharLimit = 500
	inputs[formFieldPriority].Placeholder = "low/medium/high (Enter for medium)"
	inputs[formFieldPriority].CharLimit = 10
	inputs[formFieldDueDate].Placeholder = "Due date yyyy-mm-dd (Enter to skip)"
	inputs[formFieldDueDate].CharLimit = 10

	return inputs
}

func (m TaskFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m TaskFormModel) Update(msg tea.Msg) (TaskFormModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return formCancelMsg{} }

		case "up", "shift+tab":
			return m.focusField(-1), textinput.Blink

		case "down", "tab":
			return m.focusField(1), textinput.Blink

		case "enter":
			if m.focused < formFieldDueDate {
				return m.focusField(1), textinput.Blink
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m TaskFormModel) focusField(delta int) TaskFormModel {
	next := m.focused + delta
	if next < 0 {
		next = 0
	}
	if next >= formFieldCount {
		next = formFieldCount - 1
	}
	if next == m.focused {
		return m
	}
	m.inputs[m.focused].Blur()
	m.focused = next
	m.inputs[m.focused].Focus()
	return m
}

func (m TaskFormModel) submit() (TaskFormModel, tea.Cmd) {
	title := strings.TrimSpace(m.inputs[formFieldTitle].Value())
	if title == "" {
		m.validationErr = "title is required"
		return m, nil
	}

	priority := model.TaskPriorityMedium
	if v := strings.ToLower(strings.TrimSpace(m.inputs[formFieldPriority].Value())); v != "" {
		priority = model.TaskPriority(v)
		if !priority.IsValid() {
			m.validationErr = "priority must be low, medium or high"
			return m, nil
		}
	}

	var due *time.Time
	if v := strings.TrimSpace(m.inputs[formFieldDueDate].Value()); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			m.validationErr = "due date must be yyyy-mm-dd"
			return m, nil
		}
		due = &parsed
	}

	task := model.Task{
		Title:       title,
		Description: strings.TrimSpace(m.inputs[formFieldDescription].Value()),
		Status:      model.TaskStatusToDo,
		Priority:    priority,
		DueDate:     due,
	}
	if m.editing {
		task.ID = m.original.ID
		task.OwnerID = m.original.OwnerID
		task.Status = m.original.Status
		task.CreatedAt = m.original.CreatedAt
		task.UpdatedAt = m.original.UpdatedAt
	}

	edit := m.editing
	return m, func() tea.Msg { return formSubmitMsg{task: task, edit: edit} }
}

// View renders the form.
func (m TaskFormModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	if m.editing {
		b.WriteString(titleStyle.Render("Edit task"))
	} else {
		b.WriteString(titleStyle.Render("New task"))
	}
	b.WriteString("\n\n")

	labels := []string{"Title", "Description", "Priority", "Due date"}
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	focusedLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	for i, label := range labels {
		if i == m.focused {
			b.WriteString(focusedLabelStyle.Render(label))
		} else {
			b.WriteString(labelStyle.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	if m.validationErr != "" {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Render("✗ " + m.validationErr))
		b.WriteString("\n\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)
	b.WriteString(helpStyle.Render("enter next/save · ↑/↓ fields · esc cancel"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(1, 3)
	return boxStyle.Render(b.String())
}
