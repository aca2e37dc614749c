package repository

import (
	"context"

	"github.com/szahir/taskboard/internal/model"
)

type TaskRepository interface {
	Create(ctx context.Context, task model.Task) (model.Task, error)
	GetByID(ctx context.Context, ownerID, taskID string) (model.Task, error)
	Replace(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
}
