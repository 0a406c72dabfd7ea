package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScrapeResult is what one scrape request produced
type ScrapeResult struct {
	Products []ProductDetails
	// Failed lists products whose detail extraction failed ("Unknown" when the name was not known).
	Failed     []string
	Redirected bool
	FinalURL   string
}

// ScrapeRun represents a recorded scrape request
type ScrapeRun struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID            string             `bson:"request_id" json:"request_id"`
	Endpoint             string             `bson:"endpoint" json:"endpoint"`
	RequestedBy          string             `bson:"requested_by,omitempty" json:"requested_by,omitempty"`
	URL                  string             `bson:"url,omitempty" json:"url,omitempty"`
	SearchKeyword        string             `bson:"search_keyword,omitempty" json:"search_keyword,omitempty"`
	Redirected           bool               `bson:"redirected" json:"redirected"`
	FinalURL             string             `bson:"final_url,omitempty" json:"final_url,omitempty"`
	ExistingProductNames []string           `bson:"existing_product_names" json:"existing_product_names"`
	Products             []ProductDetails   `bson:"products" json:"products"`
	FailedProducts       []string           `bson:"failed_products" json:"failed_products"`
	Error                string             `bson:"error,omitempty" json:"error,omitempty"`
	DurationMs           int64              `bson:"duration_ms" json:"duration_ms"`
	ExportKey            string             `bson:"export_key,omitempty" json:"export_key,omitempty"`
	ExportURL            string             `bson:"-" json:"export_url,omitempty"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
}
