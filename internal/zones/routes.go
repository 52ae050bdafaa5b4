package zones

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(reg *Registry) http.Handler {
	r := chi.NewRouter()
	r.Get("/", ListHandler(reg))
	return r
}
