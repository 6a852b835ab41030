package webapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func NewRouter(api *API) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", api.HandleIndex)
	r.Get("/healthz", api.HandleHealth)
	r.Post("/run", api.HandleRun)
	r.Get("/runs", api.HandleRuns)
	r.Get("/reports", api.HandleReports)
	r.Get("/reports/{name}", api.HandleReport)

	return r
}
