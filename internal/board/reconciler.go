package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/szahir/taskboard/internal/model"
)

// Reconciler turns user actions into durable store mutations and keeps the
// cache converged with the store. Every path is confirm-then-commit: the
// store call happens first and the cache is patched only from the store's
// response, so a rejected mutation leaves no residue.
//
// Mutations are serialized per task id: while one is unresolved, further
// mutations of the same task are rejected with ErrMoveInFlight.
type Reconciler struct {
	store Store
	cache *Cache

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewReconciler(store Store, cache *Cache) *Reconciler {
	return &Reconciler{
		store:    store,
		cache:    cache,
		inFlight: make(map[string]struct{}),
	}
}

// Gesture is a drag from a source position to a destination column. Dest
// is nil when the drop landed outside any column. Indexes address the
// current projection only; within-column position is never persisted.
type Gesture struct {
	Source      Column
	SourceIndex int
	Dest        *Column
	DestIndex   int
}

// MoveResult reports what a gesture amounted to.
type MoveResult struct {
	// Committed is true when a status change was persisted and the cache
	// was patched from the store's response.
	Committed bool
	// Task is the store-confirmed document after a committed move.
	Task model.Task
	// Notice carries a non-fatal, user-facing message for no-op outcomes
	// such as the task having been deleted mid-drag.
	Notice string
}

// Move reconciles a drag gesture against the given projection snapshot.
// A cancelled gesture or a drop that does not cross a status boundary
// issues no store call. On failure the cache is guaranteed unchanged; an
// ErrAuth is returned as-is so the caller can tear down the session.
func (r *Reconciler) Move(ctx context.Context, view Snapshot, g Gesture) (MoveResult, error) {
	if g.Dest == nil {
		return MoveResult{}, nil
	}

	column := view.Tasks(g.Source)
	if g.SourceIndex < 0 || g.SourceIndex >= len(column) {
		return MoveResult{Notice: "task no longer exists"}, nil
	}
	dragged := column[g.SourceIndex]

	// The projection may be stale; the cache is the local truth. A miss
	// here means the task raced with a delete.
	current, ok := r.cache.Get(dragged.ID)
	if !ok {
		return MoveResult{Notice: "task no longer exists"}, nil
	}

	destStatus := g.Dest.Status()
	if current.Status == destStatus {
		return MoveResult{}, nil
	}

	if !r.acquire(current.ID) {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrMoveInFlight, current.ID)
	}
	defer r.release(current.ID)

	mutated := current
	mutated.Status = destStatus

	stored, err := r.store.Replace(ctx, mutated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Deleted remotely mid-drag; drop it locally too.
			r.cache.Remove(current.ID)
			return MoveResult{Notice: "task no longer exists"}, nil
		}
		return MoveResult{}, fmt.Errorf("failed to move task: %w", err)
	}

	if err := r.cache.Replace(stored); err != nil {
		return MoveResult{}, err
	}

	return MoveResult{Committed: true, Task: stored}, nil
}

// Create persists a new task and inserts the store's document into the
// cache on acknowledgment.
func (r *Reconciler) Create(ctx context.Context, task model.Task) (model.Task, error) {
	stored, err := r.store.Create(ctx, task)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	r.cache.Insert(stored)
	return stored, nil
}

// Edit performs a full-document replace and patches the cache from the
// store's response.
func (r *Reconciler) Edit(ctx context.Context, task model.Task) (model.Task, error) {
	if !r.acquire(task.ID) {
		return model.Task{}, fmt.Errorf("%w: %s", ErrMoveInFlight, task.ID)
	}
	defer r.release(task.ID)

	stored, err := r.store.Replace(ctx, task)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to edit task: %w", err)
	}
	if err := r.cache.Replace(stored); err != nil {
		return model.Task{}, err
	}
	return stored, nil
}

// Delete removes the task from the store, then from the cache. A task the
// store has already lost counts as deleted.
func (r *Reconciler) Delete(ctx context.Context, id string) error {
	if !r.acquire(id) {
		return fmt.Errorf("%w: %s", ErrMoveInFlight, id)
	}
	defer r.release(id)

	if err := r.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	r.cache.Remove(id)
	return nil
}

func (r *Reconciler) acquire(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inFlight[id]; busy {
		return false
	}
	r.inFlight[id] = struct{}{}
	return true
}

func (r *Reconciler) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, id)
}
