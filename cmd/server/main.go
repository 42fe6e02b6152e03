package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abbasrizvi-lab/todoapp/internal/api"
	"github.com/abbasrizvi-lab/todoapp/internal/auth"
	"github.com/abbasrizvi-lab/todoapp/internal/config"
	"github.com/abbasrizvi-lab/todoapp/internal/db"
	apperrors "github.com/abbasrizvi-lab/todoapp/internal/errors"
	"github.com/abbasrizvi-lab/todoapp/internal/health"
	"github.com/abbasrizvi-lab/todoapp/internal/logger"
	"github.com/abbasrizvi-lab/todoapp/internal/middleware"
	"github.com/abbasrizvi-lab/todoapp/internal/todos"
)

func main() {
	cfg := config.Load()

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel), "server")
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Error(ctx, "failed to connect to database", nil, err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		database.Close(closeCtx)
	}()

	if err := database.EnsureIndexes(ctx); err != nil {
		log.Error(ctx, "failed to create indexes", nil, err)
		os.Exit(1)
	}

	userRepo := db.NewUserRepository(database)
	todoRepo := db.NewTodoRepository(database)

	authService := auth.NewService(userRepo, cfg.JWTSecret)
	authHandlers := auth.NewHandlers(authService)
	todoHandlers := todos.NewHandlers(todoRepo)
	healthHandler := health.NewHandler(database)

	router := api.NewRouter(authHandlers, authService, todoHandlers, healthHandler)

	handler := middleware.Chain(router,
		apperrors.RequestIDMiddleware,
		middleware.Logging(log.WithComponent("http")),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Recoverer(log),
	)

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "starting server", map[string]any{"addr": cfg.ServerAddr})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(ctx, "server failed", nil, err)
		os.Exit(1)
	}
	log.Info(context.Background(), "server stopped", nil)
}
