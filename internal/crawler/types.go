package crawler

import (
	"context"
	"net/http"
	"time"
)

// Listing is the canonical record produced for one scraped listing.
// The JSON names are the persisted contract and must not change.
type Listing struct {
	Address     *string  `json:"adress,omitempty"`
	ListPrice   float64  `json:"utropspris"`
	Valuation   *float64 `json:"varde"`
	DealScore   float64  `json:"fyndchans"`
	URL         string   `json:"lank"`
	NextShowing string   `json:"visning,omitempty"`
}

// Crawler interface defines the contract for all crawler implementations
type Crawler interface {
	// FetchListings retrieves normalized listings from a source
	FetchListings(ctx context.Context) ([]Listing, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string

	// GetProvider returns the provider name for the crawler
	GetProvider() string
}

// CrawlerConfig contains configuration for a crawler
type CrawlerConfig struct {
	URL        string
	SiteOrigin string
	UserAgent  string
	Timeout    time.Duration
	Client     *http.Client

	// Rate limiting
	CacheKey  string
	BlockTime time.Duration

	Provider string

	// Extraction
	MaxListings       int
	MaxDepth          int
	RootQueryKey      string
	SearchKeyPrefixes []string
}
