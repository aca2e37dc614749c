package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/szahir/taskboard/internal/board"
	"github.com/szahir/taskboard/internal/client"
	"github.com/szahir/taskboard/internal/model"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func errorBody(code, message string) map[string]any {
	return map[string]any{
		"error": map[string]string{"code": code, "message": message},
	}
}

func TestLogin_StoresSessionCookie(t *testing.T) {
	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/user/login":
			http.SetCookie(w, &http.Cookie{Name: "taskboard_session", Value: "tok", Path: "/"})
			writeJSON(t, w, http.StatusOK, client.User{ID: "user-1", Email: "a@b.c"})
		case "/api/v1/tasks":
			_, err := r.Cookie("taskboard_session")
			sawCookie = err == nil
			writeJSON(t, w, http.StatusOK, []model.Task{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c, err := client.New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	user, err := c.Login(context.Background(), client.LoginParams{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user = %+v", user)
	}

	if _, err := c.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !sawCookie {
		t.Error("session cookie was not attached to the follow-up request")
	}
}

func TestList(t *testing.T) {
	due := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	want := []model.Task{
		{ID: "1", Title: "A", Status: model.TaskStatusToDo, Priority: model.TaskPriorityHigh, DueDate: &due},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/tasks" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, want)
	}))
	defer srv.Close()

	c, _ := client.New(srv.URL)
	got, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" || got[0].DueDate == nil {
		t.Errorf("got %+v", got)
	}
}

func TestReplace_SendsFullDocument(t *testing.T) {
	var sent map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/v1/tasks/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Fatalf("decode: %v", err)
		}
		writeJSON(t, w, http.StatusOK, model.Task{ID: "42", Title: sent["title"].(string)})
	}))
	defer srv.Close()

	c, _ := client.New(srv.URL)
	task := model.Task{
		ID:          "42",
		Title:       "T",
		Description: "D",
		Status:      model.TaskStatusDone,
		Priority:    model.TaskPriorityLow,
	}
	if _, err := c.Replace(context.Background(), task); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if sent["title"] != "T" || sent["status"] != "done" || sent["priority"] != "low" {
		t.Errorf("sent %+v", sent)
	}
	if _, ok := sent["id"]; ok {
		t.Error("identity must not be client-supplied in the body")
	}
}

func TestDelete_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/tasks/7" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, _ := client.New(srv.URL)
	if err := c.Delete(context.Background(), "7"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, errorBody("UNAUTHORIZED", "invalid or expired session"), board.ErrAuth},
		{"not found", http.StatusNotFound, errorBody("NOT_FOUND", "resource not found"), board.ErrNotFound},
		{"validation", http.StatusBadRequest, errorBody("INVALID_INPUT", "title is required"), board.ErrInvalid},
		{"email taken", http.StatusBadRequest, errorBody("EMAIL_TAKEN", "email already taken"), board.ErrEmailTaken},
		{"server error", http.StatusInternalServerError, errorBody("INTERNAL_ERROR", "boom"), board.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.status, tt.body)
			}))
			defer srv.Close()

			c, _ := client.New(srv.URL)
			_, err := c.List(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c, _ := client.New(srv.URL)
	_, err := c.List(context.Background())
	if !errors.Is(err, board.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
