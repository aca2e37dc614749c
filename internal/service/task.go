package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/szahir/taskboard/internal/model"
	"github.com/szahir/taskboard/internal/repository"
)

// parseDueDate parses an RFC3339 date or datetime string into *time.Time.
// Returns nil if input is nil or empty; an empty string clears the due date.
func parseDueDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid dueDate format, expected RFC3339 or YYYY-MM-DD", ErrInvalidInput)
	}
	return &t, nil
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *string // RFC3339 or YYYY-MM-DD, parsed here
}

type ReplaceTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *string
}

type TaskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, ownerID string, input CreateTaskInput) (model.Task, error) {
	if input.Title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	status := model.TaskStatus(input.Status)
	if input.Status == "" {
		status = model.TaskStatusToDo
	}
	if !status.IsValid() {
		return model.Task{}, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, input.Status)
	}

	priority := model.TaskPriority(input.Priority)
	if input.Priority == "" {
		priority = model.TaskPriorityMedium
	}
	if !priority.IsValid() {
		return model.Task{}, fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, input.Priority)
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return created, nil
}

func (s *TaskService) GetByID(ctx context.Context, ownerID, taskID string) (model.Task, error) {
	task, err := s.repo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Replace performs a full-document overwrite. Identity, ownership and
// creation time are taken from the stored row, never from the input.
func (s *TaskService) Replace(ctx context.Context, ownerID, taskID string, input ReplaceTaskInput) (model.Task, error) {
	if input.Title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	status := model.TaskStatus(input.Status)
	if !status.IsValid() {
		return model.Task{}, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, input.Status)
	}

	priority := model.TaskPriority(input.Priority)
	if !priority.IsValid() {
		return model.Task{}, fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, input.Priority)
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return model.Task{}, err
	}

	existing, err := s.repo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task for replace: %w", err)
	}

	existing.Title = input.Title
	existing.Description = input.Description
	existing.Status = status
	existing.Priority = priority
	existing.DueDate = dueDate

	replaced, err := s.repo.Replace(ctx, existing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to replace task: %w", err)
	}

	return replaced, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	err := s.repo.Delete(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
