package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/szahir/taskboard/internal/model"
)

// Cache is the in-memory mirror of the store's task set. It only ever
// holds store-confirmed documents: every mutation happens after the store
// has acknowledged, so a failed request leaves the cache untouched and no
// rollback is needed.
//
// Store calls run from UI commands on their own goroutines, so access is
// guarded by a mutex even though the projection itself is single-threaded.
type Cache struct {
	mu    sync.RWMutex
	tasks []model.Task
}

func NewCache() *Cache {
	return &Cache{}
}

// Load replaces the whole cache with a fresh fetch from the store. On any
// failure the previous contents are kept; an ErrAuth from the store
// propagates unchanged so the caller can tear down the session.
func (c *Cache) Load(ctx context.Context, store Store) error {
	tasks, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	c.mu.Lock()
	c.tasks = tasks
	c.mu.Unlock()
	return nil
}

// Insert appends a store-confirmed task. Never called speculatively.
func (c *Cache) Insert(task model.Task) {
	c.mu.Lock()
	c.tasks = append(c.tasks, task)
	c.mu.Unlock()
}

// Replace overwrites the cached task with the same id. An unknown id means
// cache and store have diverged, which is a logic error upstream.
func (c *Cache) Replace(task model.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == task.ID {
			c.tasks[i] = task
			return nil
		}
	}
	return fmt.Errorf("%w: task %s", ErrCacheDiverged, task.ID)
}

// Remove deletes the cached task with the given id. Removing an id that is
// not cached is not an error.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return
		}
	}
}

// Get returns the cached task with the given id.
func (c *Cache) Get(id string) (model.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return c.tasks[i], true
		}
	}
	return model.Task{}, false
}

// Tasks returns a copy of the cached tasks in insertion order.
func (c *Cache) Tasks() []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}
