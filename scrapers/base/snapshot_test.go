package base

import (
	"strings"
	"testing"
)

const listingPage = `<html>
<head><title> Search - Geek Bar </title><script>var tracking = 1;</script><style>.x{}</style></head>
<body>
  <div class="product-layout" data-product-id="91" onclick="track()">
    <a href="/geek-bar-pulse"><img src="image/cache/pulse.jpg" alt="Geek Bar Pulse" loading="lazy"></a>
    <h4>   Geek Bar Pulse   </h4>
    <script>window.dataLayer.push({});</script>
  </div>
  <noscript>enable js</noscript>
</body>
</html>`

func TestReduceHTML(t *testing.T) {
	snap, err := ReduceHTML(listingPage, "https://demandvape.com/index.php?route=product/search", 0)
	if err != nil {
		t.Fatalf("ReduceHTML: %v", err)
	}
	if snap.Title != "Search - Geek Bar" {
		t.Errorf("Title = %q", snap.Title)
	}
	if snap.URL != "https://demandvape.com/index.php?route=product/search" {
		t.Errorf("URL = %q", snap.URL)
	}

	for _, unwanted := range []string{"tracking", "dataLayer", "enable js", "onclick", "data-product-id", "loading=", ".x{}"} {
		if strings.Contains(snap.HTML, unwanted) {
			t.Errorf("reduced html still contains %q: %s", unwanted, snap.HTML)
		}
	}
	for _, wanted := range []string{
		`href="https://demandvape.com/geek-bar-pulse"`,
		`src="https://demandvape.com/image/cache/pulse.jpg"`,
		`alt="Geek Bar Pulse"`,
		`class="product-layout"`,
		"Geek Bar Pulse",
	} {
		if !strings.Contains(snap.HTML, wanted) {
			t.Errorf("reduced html missing %q: %s", wanted, snap.HTML)
		}
	}
	if strings.Contains(snap.HTML, "  ") || strings.Contains(snap.HTML, "\n") {
		t.Errorf("whitespace not collapsed: %q", snap.HTML)
	}
}

func TestReduceHTMLTruncates(t *testing.T) {
	page := "<html><body><p>" + strings.Repeat("é", 100) + "</p></body></html>"
	snap, err := ReduceHTML(page, "https://demandvape.com/", 21)
	if err != nil {
		t.Fatalf("ReduceHTML: %v", err)
	}
	if len(snap.HTML) > 21 {
		t.Fatalf("len = %d, want <= 21", len(snap.HTML))
	}
	if !strings.HasPrefix(snap.HTML, "<p>é") {
		t.Fatalf("unexpected prefix %q", snap.HTML)
	}
	if strings.ContainsRune(snap.HTML, '�') {
		t.Fatalf("truncation produced invalid utf-8: %q", snap.HTML)
	}
}
