package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
)

// NewRouter wires the keypad endpoints behind the request id, tracing,
// logging and recovery middleware. metrics serves /metrics.
func NewRouter(kp *keypad.Handler, metrics http.Handler) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", metrics)

	keypad.RegisterRoutes(r, kp)

	return r
}
