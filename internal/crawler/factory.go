package crawler

import (
	"fyndchans/listingworker/config"
	"fyndchans/listingworker/logger"
	"fyndchans/listingworker/services/cache"
)

// CreateCrawler creates the listing crawler based on the configuration
func CreateCrawler(cfg *config.Config, cacheSvc cache.CacheService) *BooliCrawler {
	c := NewBooliCrawler(CrawlerConfig{
		URL:               cfg.TargetURL,
		SiteOrigin:        cfg.SiteOrigin,
		UserAgent:         cfg.UserAgent,
		Timeout:           cfg.FetchTimeout,
		BlockTime:         cfg.BlockTime,
		MaxListings:       cfg.MaxListings,
		MaxDepth:          cfg.LocatorMaxDepth,
		SearchKeyPrefixes: cfg.SearchKeyPrefixes,
	}, cacheSvc)

	logger.ForCrawler(c.GetName()).Debug().
		Str("url", c.URL).
		Int("max_listings", c.MaxListings).
		Int("max_depth", c.Locator.MaxDepth).
		Strs("prefixes", c.SearchKeyPrefixes).
		Bool("rate_limit_block", cacheSvc != nil).
		Msg("Created crawler")

	return c
}
