package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/healthpod/healthpod/internal/server/auth"
)

// NewRouter assembles the pod API. Resource and container endpoints sit
// behind the bearer-token middleware; auth endpoints do not.
func NewRouter(h *Handlers, secretKey []byte) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", h.ping)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Get("/salt", h.getSalt)
			r.Post("/login", h.login)
			r.Post("/refresh", h.refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(secretKey))

			r.Get("/resources", h.readResource)
			r.Put("/resources", h.writeResource)
			r.Delete("/resources", h.deleteResource)
			r.Get("/containers", h.listContainer)
		})
	})

	return r
}
