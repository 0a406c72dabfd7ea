package utils

import (
	"context"
	"strings"
	"testing"

	"github.com/raushankrgupta/vape-catalog-scraper/models"
)

func TestBuildDigest(t *testing.T) {
	battery := "650mAh"
	run := &models.ScrapeRun{
		SearchKeyword: "geek bar",
		Products: []models.ProductDetails{
			{
				ProductBase:       models.ProductBase{Name: "Geek Bar Pulse", Link: "https://demandvape.com/geek-bar-pulse"},
				ProductAttributes: models.ProductAttributes{Battery: &battery},
			},
			{ProductBase: models.ProductBase{Name: "Tom & Jerry <Mint>", Link: "https://demandvape.com/tj"}},
		},
		FailedProducts: []string{"Raz TN9000"},
	}

	subject, text, htmlContent := BuildDigest(run)
	if subject != `2 new product(s) from search "geek bar"` {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"- Geek Bar Pulse (https://demandvape.com/geek-bar-pulse)", "Battery: 650mAh", "Could not read 1 product(s): Raz TN9000"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(htmlContent, "Tom &amp; Jerry &lt;Mint&gt;") {
		t.Errorf("html not escaped: %s", htmlContent)
	}
}

func TestNotifyNewProductsSkipsEmptyRuns(t *testing.T) {
	m := &DigestMailer{}
	if err := m.NotifyNewProducts(context.Background(), &models.ScrapeRun{URL: "https://demandvape.com/disposables"}); err != nil {
		t.Fatalf("expected no error for an empty run, got %v", err)
	}
}
