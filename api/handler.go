package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raushankrgupta/vape-catalog-scraper/models"
	"github.com/raushankrgupta/vape-catalog-scraper/utils"
	log "github.com/sirupsen/logrus"
)

const (
	// FailuresHeader carries the number of products whose details could not be read
	FailuresHeader  = "X-Scrape-Failures"
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 1 << 20
)

// ProductScraper runs the scrape flows
type ProductScraper interface {
	ScrapeListing(ctx context.Context, listingURL string, existing []string) (*models.ScrapeResult, error)
	SearchAndScrape(ctx context.Context, keyword string, existing []string) (*models.ScrapeResult, error)
}

// RunRecorder stores a finished run
type RunRecorder interface {
	RecordRun(ctx context.Context, run *models.ScrapeRun) error
}

// ResultExporter uploads the products of a run and returns where they were stored
type ResultExporter interface {
	ExportResults(ctx context.Context, requestID string, products []models.ProductDetails) (string, error)
}

// Notifier announces newly found products
type Notifier interface {
	NotifyNewProducts(ctx context.Context, run *models.ScrapeRun) error
}

// Handler serves the scrape endpoints. Runs, Exporter and Notifier are optional.
type Handler struct {
	Scraper  ProductScraper
	Runs     RunRecorder
	Exporter ResultExporter
	Notifier Notifier
}

// NewHandler creates a handler without post-processing
func NewHandler(scraper ProductScraper) *Handler {
	return &Handler{Scraper: scraper}
}

// ScrapeHandler scrapes a listing URL given as query parameters or a JSON body
func (h *Handler) ScrapeHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	requestID := uuid.NewString()
	defer flushLog(&logMessageBuilder, requestID)
	utils.AddToLogMessage(&logMessageBuilder, "[Scrape API]")
	w.Header().Set(RequestIDHeader, requestID)

	req, err := parseScrapeRequest(r)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Scraping URL: %s (%d known products)", req.URL, len(req.ExistingProductNames)))

	run := &models.ScrapeRun{
		RequestID:            requestID,
		Endpoint:             "scrape",
		URL:                  req.URL,
		ExistingProductNames: req.ExistingProductNames,
	}
	h.serveRun(w, r, &logMessageBuilder, run, func(ctx context.Context) (*models.ScrapeResult, error) {
		return h.Scraper.ScrapeListing(ctx, req.URL, req.ExistingProductNames)
	})
}

// SearchAndScrapeHandler searches the site for a keyword and scrapes what it finds
func (h *Handler) SearchAndScrapeHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	requestID := uuid.NewString()
	defer flushLog(&logMessageBuilder, requestID)
	utils.AddToLogMessage(&logMessageBuilder, "[Search And Scrape API]")
	w.Header().Set(RequestIDHeader, requestID)

	var req models.SearchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	req.SearchKeyword = strings.TrimSpace(req.SearchKeyword)
	if req.SearchKeyword == "" {
		utils.RespondError(w, &logMessageBuilder, "search_keyword is required", http.StatusBadRequest)
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Searching for: %s (%d known products)", req.SearchKeyword, len(req.ExistingProductNames)))

	run := &models.ScrapeRun{
		RequestID:            requestID,
		Endpoint:             "search-and-scrape",
		SearchKeyword:        req.SearchKeyword,
		ExistingProductNames: req.ExistingProductNames,
	}
	h.serveRun(w, r, &logMessageBuilder, run, func(ctx context.Context) (*models.ScrapeResult, error) {
		return h.Scraper.SearchAndScrape(ctx, req.SearchKeyword, req.ExistingProductNames)
	})
}

// serveRun executes scrape and writes the product list, or a 500 carrying the error text.
// Post-processing runs after the response is flushed. The scrape is not cancelled when
// the client goes away.
func (h *Handler) serveRun(w http.ResponseWriter, r *http.Request, logMessageBuilder *strings.Builder, run *models.ScrapeRun,
	scrape func(ctx context.Context) (*models.ScrapeResult, error)) {
	ctx := context.WithoutCancel(r.Context())
	if userID, err := GetUserIDFromContext(ctx); err == nil {
		run.RequestedBy = userID
	}
	start := time.Now()

	result, err := scrape(ctx)
	run.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		run.Error = err.Error()
		h.recordRun(ctx, logMessageBuilder, run)
		utils.RespondError(w, logMessageBuilder, err.Error(), http.StatusInternalServerError)
		return
	}

	products := result.Products
	if products == nil {
		products = []models.ProductDetails{}
	}
	run.Products = products
	run.FailedProducts = result.Failed
	run.Redirected = result.Redirected
	run.FinalURL = result.FinalURL
	utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Scraped %d products, %d failed, redirected=%v", len(products), len(result.Failed), result.Redirected))

	w.Header().Set(FailuresHeader, strconv.Itoa(len(result.Failed)))
	utils.RespondJSON(w, http.StatusOK, products)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	h.postProcess(ctx, logMessageBuilder, run)
}

// postProcess exports, records and announces a successful run. Failures are only logged.
func (h *Handler) postProcess(ctx context.Context, logMessageBuilder *strings.Builder, run *models.ScrapeRun) {
	if h.Exporter != nil && len(run.Products) > 0 {
		key, err := h.Exporter.ExportResults(ctx, run.RequestID, run.Products)
		if err != nil {
			utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Failed to export results: %v", err))
		} else {
			run.ExportKey = key
			utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Results exported to %s", key))
		}
	}

	h.recordRun(ctx, logMessageBuilder, run)

	if h.Notifier != nil && len(run.Products) > 0 {
		if err := h.Notifier.NotifyNewProducts(ctx, run); err != nil {
			utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Failed to send digest: %v", err))
		}
	}
}

func (h *Handler) recordRun(ctx context.Context, logMessageBuilder *strings.Builder, run *models.ScrapeRun) {
	if h.Runs == nil {
		return
	}
	if err := h.Runs.RecordRun(ctx, run); err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Failed to record run: %v", err))
		return
	}
	utils.AddToLogMessage(logMessageBuilder, "Run saved to MongoDB")
}

// parseScrapeRequest reads url and existing_product_names from the query string and the body.
// The body may be a JSON object or a bare JSON array of known names.
func parseScrapeRequest(r *http.Request) (models.ScrapeRequest, error) {
	query := r.URL.Query()
	req := models.ScrapeRequest{
		URL:                  strings.TrimSpace(query.Get("url")),
		ExistingProductNames: query["existing_product_names"],
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return req, fmt.Errorf("Invalid request body: %v", err)
	}
	body = bytes.TrimSpace(body)
	switch {
	case len(body) == 0:
	case body[0] == '[':
		var names []string
		if err := json.Unmarshal(body, &names); err != nil {
			return req, fmt.Errorf("Invalid request body: %v", err)
		}
		req.ExistingProductNames = append(req.ExistingProductNames, names...)
	default:
		var bodyReq models.ScrapeRequest
		if err := json.Unmarshal(body, &bodyReq); err != nil {
			return req, fmt.Errorf("Invalid request body: %v", err)
		}
		if req.URL == "" {
			req.URL = strings.TrimSpace(bodyReq.URL)
		}
		req.ExistingProductNames = append(req.ExistingProductNames, bodyReq.ExistingProductNames...)
	}

	if req.URL == "" {
		return req, fmt.Errorf("Please provide a 'url' query parameter or JSON body")
	}
	u, err := url.ParseRequestURI(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return req, fmt.Errorf("Invalid url: %s", req.URL)
	}
	return req, nil
}

func flushLog(logMessageBuilder *strings.Builder, requestID string) {
	log.WithField("request_id", requestID).Info(logMessageBuilder.String())
}
