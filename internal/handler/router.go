package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	journalhandler "github.com/neuropy/homehub/backend/internal/handler/journal"
	"github.com/neuropy/homehub/backend/internal/store"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(journalStore store.JournalStore) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	journalHandler := journalhandler.New(journalStore)

	r.Route("/api", func(api chi.Router) {
		journalHandler.RegisterRoutes(api)
	})

	return r
}
