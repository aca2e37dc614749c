package http

import (
	"net/http"

	"github.com/szahir/taskboard/internal/http/handler"
	"github.com/szahir/taskboard/internal/service"
	"github.com/szahir/taskboard/internal/session"
)

func NewRouter(taskSvc *service.TaskService, authSvc *service.AuthService, sessions *session.Manager) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for load balancer compatibility
	health := handler.NewHealthHandler()
	mux.Handle("/health", health)

	userHandler := handler.NewUserHandler(authSvc, sessions)
	mux.Handle("/api/v1/user/", userHandler)

	taskHandler := handler.NewTaskHandler(taskSvc)
	mux.Handle("/api/v1/tasks", taskHandler)
	mux.Handle("/api/v1/tasks/", taskHandler)

	return mux
}
