package scrapers

import (
	"context"

	"github.com/raushankrgupta/vape-catalog-scraper/scrapers/query"
)

// Launcher starts a browser session. Every scrape request launches its own.
type Launcher interface {
	Launch(ctx context.Context) (Browser, error)
}

// Browser is one running browser session
type Browser interface {
	// NewPage opens a new tab in the session's browsing context
	NewPage() (Page, error)
	// Close tears down every page and the browser process
	Close() error
}

// Page is a single tab. Pages are not safe for concurrent use; concurrent work uses separate pages.
type Page interface {
	// Goto navigates and waits for the load event
	Goto(url string) error
	// GotoObservingRedirect navigates like Goto and reports whether the requested URL answered with a redirect
	GotoObservingRedirect(url string) (*Navigation, error)
	// Wheel scrolls by deltaY pixels to trigger lazily loaded content
	Wheel(deltaY float64) error
	// Snapshot returns the rendered page content
	Snapshot() (*Snapshot, error)
	Close()
}

// Querier evaluates a declarative query against a page snapshot and decodes the JSON answer into out.
// Fields the page does not carry come back as null.
type Querier interface {
	QueryData(ctx context.Context, snapshot *Snapshot, q *query.Query, out interface{}) error
}

// Navigation is the outcome of a navigation with redirect observation
type Navigation struct {
	RequestedURL string
	FinalURL     string
	Redirected   bool
	StatusCode   int
}

// Snapshot is the reduced rendered content of a page
type Snapshot struct {
	URL   string
	Title string
	HTML  string
}
