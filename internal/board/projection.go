package board

import (
	"sort"
	"strings"
	"time"

	"github.com/szahir/taskboard/internal/model"
)

type SortKey string

const (
	SortRecent       SortKey = "recent"
	SortAlphabetical SortKey = "alphabetical"
)

// Column identifies one of the three board columns.
type Column int

const (
	ColumnToDo Column = iota
	ColumnInProgress
	ColumnDone
)

var columnStatus = map[Column]model.TaskStatus{
	ColumnToDo:       model.TaskStatusToDo,
	ColumnInProgress: model.TaskStatusInProgress,
	ColumnDone:       model.TaskStatusDone,
}

// Status returns the task status a drop into this column implies.
func (c Column) Status() model.TaskStatus {
	return columnStatus[c]
}

// ViewState distinguishes an empty account from an empty search result;
// the two render differently.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewEmpty
	ViewNoResults
)

// Counts are aggregates over the unfiltered cache, independent of any
// active search.
type Counts struct {
	Total      int
	ToDo       int
	InProgress int
	Done       int
	Overdue    int
}

// Snapshot is the derived board view: three disjoint, ordered columns that
// together partition the filtered task set.
type Snapshot struct {
	ToDo       []model.Task
	InProgress []model.Task
	Done       []model.Task
	Counts     Counts
	State      ViewState
}

// Tasks returns the tasks in the given column.
func (s Snapshot) Tasks(col Column) []model.Task {
	switch col {
	case ColumnInProgress:
		return s.InProgress
	case ColumnDone:
		return s.Done
	default:
		return s.ToDo
	}
}

// Project computes the board view for the given cache contents. It is a
// pure function: filter by search term, order by the sort key, partition
// by status, and aggregate counts over the unfiltered set.
func Project(tasks []model.Task, search string, key SortKey, now time.Time) Snapshot {
	snap := Snapshot{
		ToDo:       []model.Task{},
		InProgress: []model.Task{},
		Done:       []model.Task{},
		Counts:     countTasks(tasks, now),
	}

	filtered := filterTasks(tasks, search)
	sortTasks(filtered, key)

	for _, t := range filtered {
		switch t.Status {
		case model.TaskStatusInProgress:
			snap.InProgress = append(snap.InProgress, t)
		case model.TaskStatusDone:
			snap.Done = append(snap.Done, t)
		default:
			snap.ToDo = append(snap.ToDo, t)
		}
	}

	hasSearch := strings.TrimSpace(search) != ""
	switch {
	case len(tasks) == 0:
		snap.State = ViewEmpty
	case hasSearch && len(filtered) == 0:
		snap.State = ViewNoResults
	default:
		snap.State = ViewBoard
	}

	return snap
}

func filterTasks(tasks []model.Task, search string) []model.Task {
	if search == "" {
		out := make([]model.Task, len(tasks))
		copy(out, tasks)
		return out
	}

	q := strings.ToLower(search)
	out := []model.Task{}
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

func sortTasks(tasks []model.Task, key SortKey) {
	if key == SortAlphabetical {
		sort.SliceStable(tasks, func(i, j int) bool {
			if tasks[i].Title != tasks[j].Title {
				return tasks[i].Title < tasks[j].Title
			}
			return tasks[i].ID < tasks[j].ID
		})
		return
	}

	// Most recent first; ties keep insertion order.
	sort.SliceStable(tasks, func(i, j int) bool {
		return recencyOf(tasks[i]).After(recencyOf(tasks[j]))
	})
}

// recencyOf picks the sort timestamp: createdAt, falling back to updatedAt,
// then dueDate, then epoch zero.
func recencyOf(t model.Task) time.Time {
	if !t.CreatedAt.IsZero() {
		return t.CreatedAt
	}
	if !t.UpdatedAt.IsZero() {
		return t.UpdatedAt
	}
	if t.DueDate != nil {
		return *t.DueDate
	}
	return time.Unix(0, 0)
}

func countTasks(tasks []model.Task, now time.Time) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.TaskStatusInProgress:
			c.InProgress++
		case model.TaskStatusDone:
			c.Done++
		default:
			c.ToDo++
		}
		if IsOverdue(t, now) {
			c.Overdue++
		}
	}
	return c
}

// IsOverdue reports whether the task's due date has passed. The comparison
// is date-only and a done task is never overdue.
func IsOverdue(t model.Task, now time.Time) bool {
	if t.DueDate == nil || t.Status == model.TaskStatusDone {
		return false
	}
	return dateOnly(*t.DueDate).Before(dateOnly(now))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
