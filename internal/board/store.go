package board

import (
	"context"

	"github.com/szahir/taskboard/internal/model"
)

// Store is the remote task collection, the authoritative source of truth.
// Implementations report failures through the sentinel errors in this
// package.
type Store interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, task model.Task) (model.Task, error)
	Replace(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, id string) error
}
