// Package httpapi serves the task API over REST.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/dmehra2102/todotracker/internal/app"
)

const maxBodyBytes = 1 << 20

type Options struct {
	AllowedOrigins []string
	// RequestTimeout bounds each request; zero disables the limit.
	RequestTimeout time.Duration
	// HealthCheck, when set, backs GET /health.
	HealthCheck func(context.Context) error
}

func NewRouter(tasks *app.TaskService, logger *zap.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(echoRequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(metricsMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(newCORSMiddleware(opts.AllowedOrigins).Handler)
	r.Use(chimiddleware.RequestSize(maxBodyBytes))
	if opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	h := newHandler(tasks, logger, opts.HealthCheck)

	r.Get("/health", h.health)

	r.Route("/todos", func(r chi.Router) {
		r.Post("/", h.createTask)
		r.Get("/", h.listTasks)
		r.Get("/stats", h.statistics)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getTask)
			r.Put("/", h.updateTask)
			r.Delete("/", h.deleteTask)
			r.Put("/done", h.completeTask)
			r.Put("/undone", h.uncompleteTask)
		})
	})

	return r
}
