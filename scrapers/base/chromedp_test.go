package base

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
)

const searchURL = "https://demandvape.com/index.php?route=product/search&search=pulse%20x&category_id=1096"

func redirectEvent(from string, status int64, to string) *network.EventRequestWillBeSent {
	return &network.EventRequestWillBeSent{
		Request:          &network.Request{URL: to},
		RedirectResponse: &network.Response{URL: from, Status: status},
	}
}

func documentEvent(u string, status int64) *network.EventResponseReceived {
	return &network.EventResponseReceived{
		Type:     network.ResourceTypeDocument,
		Response: &network.Response{URL: u, Status: status},
	}
}

func TestNavigationObserver(t *testing.T) {
	const product = "https://demandvape.com/geek-bar-pulse-x"

	tests := []struct {
		name       string
		events     []interface{}
		location   string
		redirected bool
		status     int
		finalURL   string
	}{
		{
			name:       "302 on the search url",
			events:     []interface{}{redirectEvent(searchURL, 302, product), documentEvent(product, 200)},
			location:   product,
			redirected: true,
			status:     302,
			finalURL:   product,
		},
		{
			name: "search url with different query order",
			events: []interface{}{redirectEvent(
				"https://demandvape.com/index.php?category_id=1096&search=pulse%20x&route=product/search", 301, product)},
			redirected: true,
			status:     301,
			finalURL:   product,
		},
		{
			name: "302 on another url",
			events: []interface{}{
				redirectEvent("https://demandvape.com/pixel.gif", 302, "https://tracker.example.com/p.gif"),
				documentEvent(searchURL, 200),
			},
			location: searchURL,
			status:   200,
			finalURL: searchURL,
		},
		{
			name:     "200 document",
			events:   []interface{}{documentEvent(searchURL, 200)},
			location: searchURL,
			status:   200,
			finalURL: searchURL,
		},
		{
			name:       "399 is still a redirect",
			events:     []interface{}{redirectEvent(searchURL, 399, product)},
			redirected: true,
			status:     399,
			finalURL:   product,
		},
		{
			name:     "400 is not a redirect",
			events:   []interface{}{redirectEvent(searchURL, 400, product)},
			finalURL: searchURL,
		},
		{
			name:     "non-document response ignored",
			events:   []interface{}{&network.EventResponseReceived{Type: network.ResourceTypeImage, Response: &network.Response{URL: searchURL, Status: 404}}},
			finalURL: searchURL,
		},
		{
			name:       "later hops win through the final location",
			events:     []interface{}{redirectEvent(searchURL, 302, "https://demandvape.com/hop"), redirectEvent("https://demandvape.com/hop", 301, product)},
			location:   product,
			redirected: true,
			status:     302,
			finalURL:   product,
		},
		{
			name:       "document status after redirect does not overwrite it",
			events:     []interface{}{redirectEvent(searchURL, 302, product), documentEvent(searchURL, 200)},
			redirected: true,
			status:     302,
			finalURL:   product,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := newNavigationObserver(searchURL)
			for _, ev := range tt.events {
				obs.observe(ev)
			}
			nav := obs.result(tt.location)

			if nav.RequestedURL != searchURL {
				t.Errorf("RequestedURL = %q", nav.RequestedURL)
			}
			if nav.Redirected != tt.redirected {
				t.Errorf("Redirected = %v, want %v", nav.Redirected, tt.redirected)
			}
			if nav.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", nav.StatusCode, tt.status)
			}
			if nav.FinalURL != tt.finalURL {
				t.Errorf("FinalURL = %q, want %q", nav.FinalURL, tt.finalURL)
			}
		})
	}
}

func findChrome() string {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func TestGotoObservingRedirectWithChrome(t *testing.T) {
	chrome := findChrome()
	if chrome == "" {
		t.Skip("no Chrome binary found")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "pulse" {
			http.Redirect(w, r, "/product", http.StatusFound)
			return
		}
		w.Write([]byte("<html><body><h1>Results</h1></body></html>"))
	})
	mux.HandleFunc("/product", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><h1>Geek Bar Pulse</h1></body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	launcher := NewChromeLauncher(true, chrome, 30*time.Second, 0, 0)
	browser, err := launcher.Launch(context.Background())
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	defer page.Close()

	nav, err := page.GotoObservingRedirect(srv.URL + "/search?q=pulse")
	if err != nil {
		t.Fatalf("GotoObservingRedirect: %v", err)
	}
	if !nav.Redirected || nav.StatusCode != http.StatusFound || nav.FinalURL != srv.URL+"/product" {
		t.Errorf("redirect not observed: %+v", nav)
	}

	nav, err = page.GotoObservingRedirect(srv.URL + "/search?q=other")
	if err != nil {
		t.Fatalf("GotoObservingRedirect: %v", err)
	}
	if nav.Redirected || nav.StatusCode != http.StatusOK {
		t.Errorf("unexpected redirect: %+v", nav)
	}
}
