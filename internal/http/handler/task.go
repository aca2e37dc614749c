package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/szahir/taskboard/internal/middleware"
	"github.com/szahir/taskboard/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// ServeHTTP routes /api/v1/tasks and /api/v1/tasks/{id}
func (h *TaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/tasks")
	path = strings.Trim(path, "/")

	if path != "" {
		switch r.Method {
		case http.MethodGet:
			h.handleGetByID(w, r, path)
		case http.MethodPut:
			h.handleReplace(w, r, path)
		case http.MethodDelete:
			h.handleDelete(w, r, path)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate,omitempty"`
}

func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}

	task, err := h.svc.Create(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) handleGetByID(w http.ResponseWriter, r *http.Request, taskID string) {
	userID := middleware.GetUserID(r)

	task, err := h.svc.GetByID(r.Context(), userID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

type replaceTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate,omitempty"`
}

func (h *TaskHandler) handleReplace(w http.ResponseWriter, r *http.Request, taskID string) {
	userID := middleware.GetUserID(r)

	var req replaceTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	input := service.ReplaceTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}

	task, err := h.svc.Replace(r.Context(), userID, taskID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleDelete(w http.ResponseWriter, r *http.Request, taskID string) {
	userID := middleware.GetUserID(r)

	if err := h.svc.Delete(r.Context(), userID, taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	tasks, err := h.svc.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tasks)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		WriteError(w, http.StatusBadRequest, "EMAIL_TAKEN", "email already taken")
	case errors.Is(err, service.ErrBadCredentials):
		WriteError(w, http.StatusUnauthorized, "BAD_CREDENTIALS", "invalid password")
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
