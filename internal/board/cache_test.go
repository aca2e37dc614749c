package board_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/szahir/taskboard/internal/board"
	"github.com/szahir/taskboard/internal/model"
)

// mockStore implements board.Store for testing
type mockStore struct {
	listFn    func(ctx context.Context) ([]model.Task, error)
	createFn  func(ctx context.Context, task model.Task) (model.Task, error)
	replaceFn func(ctx context.Context, task model.Task) (model.Task, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockStore) List(ctx context.Context) ([]model.Task, error) {
	return m.listFn(ctx)
}
func (m *mockStore) Create(ctx context.Context, task model.Task) (model.Task, error) {
	return m.createFn(ctx, task)
}
func (m *mockStore) Replace(ctx context.Context, task model.Task) (model.Task, error) {
	return m.replaceFn(ctx, task)
}
func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleTask(id string, status model.TaskStatus) model.Task {
	return model.Task{
		ID:          id,
		OwnerID:     "user-1",
		Title:       "Task " + id,
		Description: "description",
		Status:      status,
		Priority:    model.TaskPriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newLoadedCache(t *testing.T, tasks ...model.Task) *board.Cache {
	t.Helper()
	cache := board.NewCache()
	store := &mockStore{
		listFn: func(ctx context.Context) ([]model.Task, error) {
			return tasks, nil
		},
	}
	if err := cache.Load(context.Background(), store); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cache
}

func TestCacheLoad(t *testing.T) {
	cache := newLoadedCache(t,
		sampleTask("1", model.TaskStatusToDo),
		sampleTask("2", model.TaskStatusDone),
	)

	if cache.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cache.Len())
	}
	if _, ok := cache.Get("1"); !ok {
		t.Error("task 1 missing after load")
	}
}

func TestCacheLoad_ReplacesPreviousContents(t *testing.T) {
	cache := newLoadedCache(t, sampleTask("1", model.TaskStatusToDo))

	store := &mockStore{
		listFn: func(ctx context.Context) ([]model.Task, error) {
			return []model.Task{sampleTask("9", model.TaskStatusDone)}, nil
		},
	}
	if err := cache.Load(context.Background(), store); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := cache.Get("1"); ok {
		t.Error("stale task survived reload")
	}
	if _, ok := cache.Get("9"); !ok {
		t.Error("fresh task missing after reload")
	}
}

func TestCacheLoad_FailureKeepsContents(t *testing.T) {
	cache := newLoadedCache(t, sampleTask("1", model.TaskStatusToDo))

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"network failure", board.ErrUnavailable, board.ErrUnavailable},
		{"auth failure propagates", board.ErrAuth, board.ErrAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{
				listFn: func(ctx context.Context) ([]model.Task, error) {
					return nil, tt.err
				},
			}
			err := cache.Load(context.Background(), store)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if cache.Len() != 1 {
				t.Errorf("cache mutated on failed load: len = %d", cache.Len())
			}
		})
	}
}

func TestCacheInsert(t *testing.T) {
	cache := board.NewCache()
	cache.Insert(sampleTask("1", model.TaskStatusToDo))

	got, ok := cache.Get("1")
	if !ok || got.ID != "1" {
		t.Fatalf("Get(1) = %+v, %v", got, ok)
	}
}

func TestCacheReplace(t *testing.T) {
	cache := newLoadedCache(t, sampleTask("1", model.TaskStatusToDo))

	updated := sampleTask("1", model.TaskStatusDone)
	updated.Title = "renamed"
	if err := cache.Replace(updated); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, _ := cache.Get("1")
	if got.Title != "renamed" || got.Status != model.TaskStatusDone {
		t.Errorf("got %+v", got)
	}
}

func TestCacheReplace_UnknownIDIsDivergence(t *testing.T) {
	cache := newLoadedCache(t, sampleTask("1", model.TaskStatusToDo))

	err := cache.Replace(sampleTask("missing", model.TaskStatusDone))
	if !errors.Is(err, board.ErrCacheDiverged) {
		t.Fatalf("err = %v, want ErrCacheDiverged", err)
	}
}

func TestCacheRemove_Idempotent(t *testing.T) {
	cache := newLoadedCache(t, sampleTask("1", model.TaskStatusToDo))

	cache.Remove("1")
	if cache.Len() != 0 {
		t.Fatalf("Len = %d after remove", cache.Len())
	}
	// Removing again is not an error.
	cache.Remove("1")
	cache.Remove("never-existed")
}

func TestCacheTasks_ReturnsCopy(t *testing.T) {
	cache := newLoadedCache(t, sampleTask("1", model.TaskStatusToDo))

	snapshot := cache.Tasks()
	snapshot[0].Title = "mutated"

	got, _ := cache.Get("1")
	if got.Title == "mutated" {
		t.Error("Tasks() leaked internal slice")
	}
}
