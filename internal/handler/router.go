package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	showHandler "github.com/wenqig/storyboard/backend/internal/handler/show"
	middlewarePkg "github.com/wenqig/storyboard/backend/internal/middleware"
	"github.com/wenqig/storyboard/backend/internal/service/generate"
)

// NewRouter wires HTTP routes to the generation service.
func NewRouter(gen *generate.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	h := showHandler.New(gen)
	ws := showHandler.NewWebSocketHandler(gen)

	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
		ws.RegisterRoutes(api)
	})

	return r
}
