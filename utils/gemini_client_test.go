package utils

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers/query"
)

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestDecodeResponse(t *testing.T) {
	var out struct {
		Battery *string `json:"Battery"`
		Display *string `json:"Display"`
	}
	resp := textResponse(genai.Text(`{"Battery": "650mAh",`), genai.Text(` "Display": null}`))
	if err := decodeResponse(resp, &out); err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}
	if out.Battery == nil || *out.Battery != "650mAh" {
		t.Errorf("Battery = %v", out.Battery)
	}
	if out.Display != nil {
		t.Errorf("Display = %v, want nil", *out.Display)
	}
}

func TestDecodeResponseFenced(t *testing.T) {
	var out map[string]interface{}
	resp := textResponse(genai.Text("```json\n{\"product_name\": \"Pulse\"}\n```"))
	if err := decodeResponse(resp, &out); err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}
	if out["product_name"] != "Pulse" {
		t.Errorf("product_name = %v", out["product_name"])
	}
}

func TestDecodeResponseErrors(t *testing.T) {
	var out map[string]interface{}
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"nil":           nil,
		"no candidates": {},
		"nil content":   {Candidates: []*genai.Candidate{{}}},
		"blank":         textResponse(genai.Text("  ")),
	} {
		if err := decodeResponse(resp, &out); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("%s: expected ErrEmptyResponse, got %v", name, err)
		}
	}
	if err := decodeResponse(textResponse(genai.Text("not json")), &out); err == nil {
		t.Error("expected decode error for invalid json")
	}
}

func TestBuildQueryPrompt(t *testing.T) {
	q := query.MustParse(`{ Battery Display }`)
	snap := &scrapers.Snapshot{URL: "https://demandvape.com/pulse", Title: "Pulse", HTML: "<h1>Pulse</h1>"}
	prompt := BuildQueryPrompt(snap, q)
	for _, want := range []string{"https://demandvape.com/pulse", "Page title: Pulse", "{ Battery Display }", "<h1>Pulse</h1>"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestNewGeminiQuerierRequiresKey(t *testing.T) {
	if _, err := NewGeminiQuerier(context.Background(), "", "gemini-2.0-flash"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
