package models

import "strings"

// SearchRequest represents the request body for the search-and-scrape API
type SearchRequest struct {
	SearchKeyword        string   `json:"search_keyword"`
	ExistingProductNames []string `json:"existing_product_names"`
}

// ScrapeRequest represents the JSON body form of the scrape API
type ScrapeRequest struct {
	URL                  string   `json:"url"`
	ExistingProductNames []string `json:"existing_product_names"`
}

// KnownNames is the set of product names a caller already has.
type KnownNames map[string]struct{}

// NewKnownNames builds the lookup set, ignoring surrounding whitespace and blank entries
func NewKnownNames(names []string) KnownNames {
	known := make(KnownNames, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		known[n] = struct{}{}
	}
	return known
}

// Contains reports whether name is already known
func (k KnownNames) Contains(name string) bool {
	_, ok := k[strings.TrimSpace(name)]
	return ok
}
