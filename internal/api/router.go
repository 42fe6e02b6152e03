package api

import (
	"net/http"

	"github.com/abbasrizvi-lab/todoapp/internal/auth"
	apperrors "github.com/abbasrizvi-lab/todoapp/internal/errors"
	"github.com/abbasrizvi-lab/todoapp/internal/health"
	"github.com/abbasrizvi-lab/todoapp/internal/todos"
)

type Router struct {
	mux           *http.ServeMux
	authHandlers  *auth.Handlers
	authService   *auth.Service
	todoHandlers  *todos.Handlers
	healthHandler *health.Handler
}

func NewRouter(authHandlers *auth.Handlers, authService *auth.Service, todoHandlers *todos.Handlers, healthHandler *health.Handler) *Router {
	r := &Router{
		mux:           http.NewServeMux(),
		authHandlers:  authHandlers,
		authService:   authService,
		todoHandlers:  todoHandlers,
		healthHandler: healthHandler,
	}
	r.setupRoutes()
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) setupRoutes() {
	// Health check
	r.mux.Handle("GET /api/v1/healthz", apperrors.HandleFunc(r.healthHandler.Healthz))

	// Auth routes (no auth required)
	r.mux.Handle("POST /api/v1/auth/signup", apperrors.HandleFunc(r.authHandlers.Signup))
	r.mux.Handle("POST /api/v1/auth/login", apperrors.HandleFunc(r.authHandlers.Login))

	// Todo routes (auth required)
	r.mux.Handle("POST /api/v1/todos/{$}", r.withAuth(r.todoHandlers.Create))
	r.mux.Handle("GET /api/v1/todos/{$}", r.withAuth(r.todoHandlers.List))
	r.mux.Handle("PUT /api/v1/todos/{id}", r.withAuth(r.todoHandlers.Update))
	r.mux.Handle("DELETE /api/v1/todos/{id}", r.withAuth(r.todoHandlers.Delete))
}

func (r *Router) withAuth(h apperrors.Handler) http.Handler {
	return auth.Middleware(r.authService)(apperrors.HandleFunc(h))
}
