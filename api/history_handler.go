package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/raushankrgupta/vape-catalog-scraper/models"
	"github.com/raushankrgupta/vape-catalog-scraper/utils"
)

const maxRunsPageSize = 100

// RunLister pages through recorded runs
type RunLister interface {
	ListRuns(ctx context.Context, page, limit int) ([]models.ScrapeRun, int64, error)
}

// URLPresigner turns a stored export key into a download URL
type URLPresigner interface {
	PresignURL(ctx context.Context, key string) (string, error)
}

// ScrapeRunsResponse represents the response structure for the scrape runs API
type ScrapeRunsResponse struct {
	Runs        []models.ScrapeRun `json:"runs"`
	Total       int64              `json:"total"`
	CurrentPage int                `json:"current_page"`
	TotalPages  int                `json:"total_pages"`
}

// HistoryHandler serves recorded scrape runs. Presigner is optional.
type HistoryHandler struct {
	Runs      RunLister
	Presigner URLPresigner
}

// ScrapeRunsHandler handles fetching recorded runs, newest first
func (h *HistoryHandler) ScrapeRunsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse Pagination Parameters
	page := 1
	limit := 10
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = min(l, maxRunsPageSize)
	}

	runs, total, err := h.Runs.ListRuns(r.Context(), page, limit)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch data", http.StatusInternalServerError)
		return
	}

	if h.Presigner != nil {
		for i := range runs {
			if runs[i].ExportKey == "" {
				continue
			}
			if presignedURL, err := h.Presigner.PresignURL(r.Context(), runs[i].ExportKey); err == nil {
				runs[i].ExportURL = presignedURL
			}
		}
	}

	// Ensure empty slice is returned as [] instead of null
	if runs == nil {
		runs = []models.ScrapeRun{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	utils.RespondJSON(w, http.StatusOK, ScrapeRunsResponse{
		Runs:        runs,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	})
}
