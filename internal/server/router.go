package server

import (
	"net/http"

	"github.com/courseloop/coursegw/internal/api/handlers"
	"github.com/courseloop/coursegw/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	SearchHandler *handlers.SearchHandler
	HealthHandler *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const bodyLimit int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.BodyLimit(bodyLimit))

	r.Get("/health", cfg.HealthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", cfg.SearchHandler.Search)
		r.Post("/rag", cfg.SearchHandler.Rag)
		r.Post("/answer", cfg.SearchHandler.Answer)
	})

	return r
}
