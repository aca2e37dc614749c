package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/szahir/taskboard/internal/config"
	taskhttp "github.com/szahir/taskboard/internal/http"
	"github.com/szahir/taskboard/internal/repository"
	"github.com/szahir/taskboard/internal/service"
	"github.com/szahir/taskboard/internal/session"
)

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"log_level", cfg.LogLevel,
		"session_cross_origin", cfg.Session.CrossOrigin,
	)

	// Database connection
	db, err := repository.NewDB(cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	// Session revocation store: Redis when configured, in-memory otherwise
	var revoker session.RevocationStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return err
		}
		defer client.Close()
		revoker = session.NewRedisRevocationStore(client)
		logger.Info("redis connected", "addr", cfg.Redis.Addr)
	} else {
		revoker = session.NewMemoryRevocationStore()
		logger.Warn("REDIS_ADDR not set: session revocation is per-process only")
	}

	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CrossOrigin, revoker)

	// Repositories
	taskRepo := repository.NewPostgresTask(db)
	userRepo := repository.NewPostgresUser(db)

	// Services
	taskSvc := service.NewTaskService(taskRepo)
	authSvc := service.NewAuthService(userRepo)

	// HTTP Server
	srv := taskhttp.NewServer(cfg.ServerPort, logger, taskSvc, authSvc, sessions)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
