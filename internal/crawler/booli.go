package crawler

import (
	"context"
	"fmt"
	"io"

	"fyndchans/listingworker/helpers"
	"fyndchans/listingworker/internal/graph"
	"fyndchans/listingworker/logger"
	apperrors "fyndchans/listingworker/pkg/errors"
	"fyndchans/listingworker/services/cache"
)

// DefaultMaxListings caps how many located entries are normalized.
const DefaultMaxListings = 20

// BooliCrawler scrapes the listings embedded in a search result page.
type BooliCrawler struct {
	BaseCrawler
	Locator           Locator
	Normalizer        Normalizer
	RootQueryKey      string
	SearchKeyPrefixes []string
	MaxListings       int
	fetchFunc         func(ctx context.Context) (io.Reader, error)
}

// NewBooliCrawler creates a new crawler; zero config fields take defaults.
func NewBooliCrawler(config CrawlerConfig, cacheSvc cache.CacheService) *BooliCrawler {
	client := config.Client
	if client == nil && config.Timeout > 0 {
		client = helpers.NewClient(config.Timeout)
	}
	provider := config.Provider
	if provider == "" {
		provider = "Booli"
	}
	cacheKey := config.CacheKey
	if cacheKey == "" {
		cacheKey = "booli_rate_limited"
	}
	rootKey := config.RootQueryKey
	if rootKey == "" {
		rootKey = DefaultRootQueryKey
	}
	prefixes := config.SearchKeyPrefixes
	if len(prefixes) == 0 {
		prefixes = DefaultSearchKeyPrefixes
	}
	maxListings := config.MaxListings
	if maxListings <= 0 {
		maxListings = DefaultMaxListings
	}

	c := &BooliCrawler{
		BaseCrawler: BaseCrawler{
			URL:       config.URL,
			CacheKey:  cacheKey,
			CacheSvc:  cacheSvc,
			BlockTime: config.BlockTime,
			Provider:  provider,
			UserAgent: config.UserAgent,
			Client:    client,
		},
		Locator:           NewLocator(config.MaxDepth),
		Normalizer:        Normalizer{SiteOrigin: config.SiteOrigin},
		RootQueryKey:      rootKey,
		SearchKeyPrefixes: prefixes,
		MaxListings:       maxListings,
	}
	c.fetchFunc = c.fetchWithCache
	return c
}

// GetName returns the crawler's name
func (c *BooliCrawler) GetName() string {
	return "BooliCrawler"
}

// FetchListings fetches the page and extracts its listings in located order.
func (c *BooliCrawler) FetchListings(ctx context.Context) ([]Listing, error) {
	body, err := c.fetchFunc(ctx)
	if err != nil {
		return nil, err
	}
	return c.ExtractListings(body)
}

// ExtractListings runs the extraction on already fetched markup.
func (c *BooliCrawler) ExtractListings(body io.Reader) ([]Listing, error) {
	doc, err := c.createDocument(body)
	if err != nil {
		return nil, err
	}

	raw, ok := extractNextData(doc)
	if !ok {
		return nil, apperrors.NewPayload(c.Provider, "could not find __NEXT_DATA__ script")
	}

	payload, err := graph.Decode([]byte(raw))
	if err != nil {
		return nil, apperrors.NewParsing(c.Provider, "invalid __NEXT_DATA__ JSON", err)
	}

	g, ok := graphFromPayload(payload)
	if !ok {
		msg := fmt.Sprintf("no normalized graph state in payload (top level is %s)", payload.Kind())
		return nil, apperrors.NewPayload(c.Provider, msg)
	}

	entries, ok := c.Locator.FindListings(g, c.RootQueryKey, c.SearchKeyPrefixes)
	if !ok {
		return nil, apperrors.NewListingsNotFound(c.Provider, "no root-query candidate yielded a listings collection")
	}

	located := len(entries)
	if len(entries) > c.MaxListings {
		entries = entries[:c.MaxListings]
	}

	listings := make([]Listing, 0, len(entries))
	for _, entry := range entries {
		if listing, ok := c.Normalizer.Normalize(g, entry); ok {
			listings = append(listings, listing)
		}
	}

	logger.ForCrawler(c.GetName()).Debug().
		Int("graph_entries", g.Len()).
		Int("located", located).
		Int("normalized", len(listings)).
		Int("dropped", len(entries)-len(listings)).
		Msg("Extracted listings")

	return listings, nil
}
