package herd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ListHandler)
	r.Get("/by-zones", h.ByZonesHandler)
	r.Post("/position", h.UpdatePositionHandler)
	return r
}
