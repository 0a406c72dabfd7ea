package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raushankrgupta/vape-catalog-scraper/utils"
	"github.com/rs/cors"
)

// NewRouter wires the API routes. history may be nil when run history is not configured.
// With requireAuth every route needs a bearer token.
func NewRouter(h *Handler, history *HistoryHandler, requireAuth bool) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/scrape", h.ScrapeHandler).Methods(http.MethodPost)
	r.HandleFunc("/search-and-scrape", h.SearchAndScrapeHandler).Methods(http.MethodPost)
	if history != nil {
		r.HandleFunc("/scrape-runs", history.ScrapeRunsHandler).Methods(http.MethodGet)
	}

	if requireAuth {
		r.Use(AuthMiddleware)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{FailuresHeader, RequestIDHeader},
	})
	return utils.LatencyMiddleware(c.Handler(r))
}
