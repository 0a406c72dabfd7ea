package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers/query"
	"google.golang.org/api/option"
)

var (
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")
	ErrEmptyResponse = errors.New("semantic query returned no content")
)

const queryInstruction = `You extract data from the rendered HTML of an e-commerce web page.
You receive a query listing the fields to extract, written as nested braces. A name followed by [] is a list; text in parentheses describes the field.
Answer only with JSON shaped exactly like the query. Use the visible page content, copy values verbatim, and use absolute URLs for links and images.
If the page does not contain a field, return null for it. Never invent values.`

// GeminiQuerier answers declarative page queries with Gemini structured output
type GeminiQuerier struct {
	client *genai.Client
	model  string
}

// NewGeminiQuerier creates a Gemini client for the given model
func NewGeminiQuerier(ctx context.Context, apiKey, model string) (*GeminiQuerier, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiQuerier{client: client, model: model}, nil
}

// Close releases the underlying client
func (g *GeminiQuerier) Close() error {
	return g.client.Close()
}

// QueryData evaluates q against the page snapshot and decodes the JSON answer into out
func (g *GeminiQuerier) QueryData(ctx context.Context, snapshot *scrapers.Snapshot, q *query.Query, out interface{}) error {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = q.Schema()
	model.SystemInstruction = genai.NewUserContent(genai.Text(queryInstruction))

	resp, err := model.GenerateContent(ctx, genai.Text(BuildQueryPrompt(snapshot, q)))
	if err != nil {
		return fmt.Errorf("failed to generate content: %w", err)
	}
	return decodeResponse(resp, out)
}

// BuildQueryPrompt renders the user prompt for one query against one page
func BuildQueryPrompt(snapshot *scrapers.Snapshot, q *query.Query) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Page URL: %s\n", snapshot.URL)
	if snapshot.Title != "" {
		fmt.Fprintf(&b, "Page title: %s\n", snapshot.Title)
	}
	fmt.Fprintf(&b, "\nQuery:\n%s\n", q.String())
	fmt.Fprintf(&b, "\nPage HTML:\n%s\n", snapshot.HTML)
	return b.String()
}

func decodeResponse(resp *genai.GenerateContentResponse, out interface{}) error {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ErrEmptyResponse
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	raw := strings.TrimSpace(text.String())
	if raw == "" {
		return ErrEmptyResponse
	}
	// Models occasionally wrap structured output in a markdown fence
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to decode semantic query response: %w", err)
	}
	return nil
}
