package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/szahir/taskboard/internal/middleware"
	"github.com/szahir/taskboard/internal/service"
	"github.com/szahir/taskboard/internal/session"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func NewServer(port string, logger *slog.Logger, taskSvc *service.TaskService, authSvc *service.AuthService, sessions *session.Manager) *Server {
	router := NewRouter(taskSvc, authSvc, sessions)

	// Apply middleware chain: recovery -> logging -> auth -> router
	auth := middleware.NewAuth(sessions)
	chain := middleware.Recovery(logger)(middleware.Logging(logger)(auth.Middleware(router)))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      chain,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
