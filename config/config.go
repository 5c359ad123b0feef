package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache backends
const (
	CacheBackendFile     = "file"
	CacheBackendMemcache = "memcache"
)

// Run modes
const (
	RunModeOnce   = "once"
	RunModeWorker = "worker"
)

// Config represents the application configuration
type Config struct {
	// Source page
	TargetURL    string
	SiteOrigin   string
	UserAgent    string
	FetchTimeout time.Duration
	BlockTime    time.Duration

	// Extraction
	MaxListings       int
	LocatorMaxDepth   int
	SearchKeyPrefixes []string

	// Cache store
	CacheBackend string
	CacheFile    string
	MemcacheAddr string

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Archive
	ArchiveDSN string

	// Worker configuration
	RunMode       string
	CrawlInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "20"))
	blockTime, _ := strconv.Atoi(getEnv("BLOCK_SECONDS", "600"))
	maxListings, _ := strconv.Atoi(getEnv("MAX_LISTINGS", "20"))
	maxDepth, _ := strconv.Atoi(getEnv("LOCATOR_MAX_DEPTH", "5"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "100"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "3600"))

	return &Config{
		TargetURL:            getEnv("TARGET_URL", "https://www.booli.se/sok/till-salu?areaIds=115355,35,883816,3377,2983,115351,874646,874654&floor=topFloor&maxListPrice=4000000&minLivingArea=45&upcomingSale="),
		SiteOrigin:           getEnv("SITE_ORIGIN", "https://www.booli.se"),
		UserAgent:            getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"),
		FetchTimeout:         time.Duration(fetchTimeout) * time.Second,
		BlockTime:            time.Duration(blockTime) * time.Second,
		MaxListings:          maxListings,
		LocatorMaxDepth:      maxDepth,
		SearchKeyPrefixes:    splitList(getEnv("SEARCH_KEY_PREFIXES", "search")),
		CacheBackend:         getEnv("CACHE_BACKEND", CacheBackendFile),
		CacheFile:            getEnv("CACHE_FILE", "booli_cache.json"),
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "listings"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLength,
		ArchiveDSN:           os.Getenv("ARCHIVE_DSN"),
		RunMode:              getEnv("RUN_MODE", RunModeOnce),
		CrawlInterval:        time.Duration(crawlInterval) * time.Second,
		Environment:          getEnv("FYNDCHANS_ENVIRONMENT", "development"),
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return fmt.Errorf("TARGET_URL must not be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.MaxListings <= 0 {
		return fmt.Errorf("MAX_LISTINGS must be positive")
	}
	if c.LocatorMaxDepth <= 0 {
		return fmt.Errorf("LOCATOR_MAX_DEPTH must be positive")
	}
	if len(c.SearchKeyPrefixes) == 0 {
		return fmt.Errorf("SEARCH_KEY_PREFIXES must name at least one prefix")
	}

	switch c.CacheBackend {
	case CacheBackendFile:
		if c.CacheFile == "" {
			return fmt.Errorf("CACHE_FILE must not be empty for the file backend")
		}
	case CacheBackendMemcache:
		if c.MemcacheAddr == "" {
			return fmt.Errorf("MEMCACHE_ADDR is required for the memcache backend")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.RedisAddr != "" && c.RedisStreamCount <= 0 {
		return fmt.Errorf("REDIS_STREAM_COUNT must be positive")
	}

	switch c.RunMode {
	case RunModeOnce:
	case RunModeWorker:
		if c.CrawlInterval <= 0 {
			return fmt.Errorf("CRAWL_INTERVAL_SECONDS must be positive")
		}
	default:
		return fmt.Errorf("unknown RUN_MODE %q", c.RunMode)
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
