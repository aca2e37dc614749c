package http_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	taskhttp "github.com/szahir/taskboard/internal/http"
	"github.com/szahir/taskboard/internal/middleware"
	"github.com/szahir/taskboard/internal/model"
	"github.com/szahir/taskboard/internal/service"
	"github.com/szahir/taskboard/internal/session"
)

// mockTaskRepo for router tests
type mockTaskRepo struct{}

func (m *mockTaskRepo) Create(ctx context.Context, task model.Task) (model.Task, error) {
	return model.Task{}, nil
}
func (m *mockTaskRepo) GetByID(ctx context.Context, ownerID, taskID string) (model.Task, error) {
	return model.Task{}, sql.ErrNoRows
}
func (m *mockTaskRepo) Replace(ctx context.Context, task model.Task) (model.Task, error) {
	return model.Task{}, nil
}
func (m *mockTaskRepo) Delete(ctx context.Context, ownerID, taskID string) error {
	return nil
}
func (m *mockTaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	return []model.Task{}, nil
}

// mockUserRepo for router tests — auth endpoints only need to resolve, not succeed
type mockUserRepo struct{}

func (m *mockUserRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	return user, nil
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return model.User{}, sql.ErrNoRows
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return model.User{}, sql.ErrNoRows
}

func newTestRouter() http.Handler {
	sessions := session.NewManager("test-secret", time.Hour, false, session.NewMemoryRevocationStore())
	taskSvc := service.NewTaskService(&mockTaskRepo{})
	authSvc := service.NewAuthService(&mockUserRepo{})
	return taskhttp.NewRouter(taskSvc, authSvc, sessions)
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", result["status"])
	}
}

func TestRouter_TaskEndpointRegistered(t *testing.T) {
	router := newTestRouter()

	// Set user ID in context to simulate auth middleware
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Router itself doesn't enforce auth — that's the middleware's job
	// Just verify the route is registered (200, not 404)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}
}

func TestRouter_UserEndpointRegistered(t *testing.T) {
	router := newTestRouter()

	// Login with empty body → should get a JSON error from the handler (not 404)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/login", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code == http.StatusNotFound {
		t.Errorf("user route not registered, got 404 (body: %s)", w.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
