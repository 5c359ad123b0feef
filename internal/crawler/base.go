package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fyndchans/listingworker/helpers"
	"fyndchans/listingworker/logger"
	apperrors "fyndchans/listingworker/pkg/errors"
	"fyndchans/listingworker/services/cache"
)

// BaseCrawler provides common functionality for all crawlers
type BaseCrawler struct {
	URL       string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Provider  string
	UserAgent string
	Client    *http.Client
}

// fetchWithCache fetches the page unless a previous 429 put the crawler
// into a rate-limit block, and starts such a block when one is returned.
func (c *BaseCrawler) fetchWithCache(ctx context.Context) (io.Reader, error) {
	if c.CacheSvc != nil && c.CacheKey != "" {
		if _, err := c.CacheSvc.Get(c.CacheKey); err == nil {
			return nil, apperrors.NewRateLimit(c.Provider, c.BlockTime)
		}
	}

	body, err := helpers.FetchPage(ctx, c.Client, c.URL, c.UserAgent)
	if err != nil {
		if errors.Is(err, helpers.ErrRateLimited) {
			if c.CacheSvc != nil && c.CacheKey != "" && c.BlockTime > 0 {
				setErr := c.CacheSvc.Set(c.CacheKey, []byte(fmt.Sprintf("%d", c.BlockTime/time.Second)), c.BlockTime)
				if setErr != nil {
					logger.ForCrawler(c.Provider).Warn().
						Err(setErr).
						Str("cache_key", c.CacheKey).
						Msg("Failed to record rate-limit block")
				}
			}
			return nil, apperrors.NewRateLimit(c.Provider, c.BlockTime)
		}
		return nil, apperrors.NewNetwork(c.Provider, "failed to fetch page", err)
	}

	return body, nil
}

// createDocument creates a goquery document from a reader
func (c *BaseCrawler) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, apperrors.NewParsing(c.Provider, "failed to parse HTML", err)
	}
	return doc, nil
}

// GetName returns the crawler's type name for logging
func (c *BaseCrawler) GetName() string {
	return reflect.TypeOf(c).Elem().Name()
}

// GetProvider returns the provider name
func (c *BaseCrawler) GetProvider() string {
	return c.Provider
}
