package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fyndchans/listingworker/config"
	"fyndchans/listingworker/internal/crawler"
	"fyndchans/listingworker/internal/pipeline"
	"fyndchans/listingworker/logger"
	apperrors "fyndchans/listingworker/pkg/errors"
	"fyndchans/listingworker/services/archive"
	"fyndchans/listingworker/services/cache"
	"fyndchans/listingworker/services/publisher"
	"fyndchans/listingworker/services/store"
	"fyndchans/listingworker/services/worker"

	"github.com/joho/godotenv"
)

const snapshotKey = "booli_snapshot"

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(apperrors.NewConfiguration("invalid configuration", err)).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("run_mode", cfg.RunMode).
		Str("cache_backend", cfg.CacheBackend).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	w := newWorker(cfg, services)

	if cfg.RunMode == config.RunModeOnce {
		go func() {
			<-sigChan
			cancel()
		}()
		if err := runOnce(ctx, w, os.Stdout); err != nil {
			log.Error().
				Err(err).
				Str("error_type", string(apperrors.TypeOf(err))).
				Msg("Scrape failed")
			services.Cleanup()
			os.Exit(1)
		}
		return
	}

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Dur("crawl_interval", cfg.CrawlInterval).Msg("Starting listing worker")
		workerDone <- w.Start(ctx)
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}

// runOnce runs the pipeline a single time and writes the ranked listings to out
func runOnce(ctx context.Context, w *worker.Worker, out io.Writer) error {
	result, err := w.RunOnce(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result.Listings, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Store     store.ListingStore
	Publisher publisher.Publisher
	Archive   *archive.PostgresArchive
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			logger.LogError("publisher", err, "Failed to close publisher")
		}
		s.Publisher = nil
	}
	if s.Archive != nil {
		if err := s.Archive.Close(); err != nil {
			logger.LogError("archive", err, "Failed to close archive")
		}
		s.Archive = nil
	}
}

// initializeServices initializes the store and the optional backends
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}
	log := logger.Default

	if cfg.MemcacheAddr != "" {
		memcache := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := memcache.Ping(); err != nil {
			if cfg.CacheBackend == config.CacheBackendMemcache {
				return nil, apperrors.NewCache("", "memcache unreachable", err)
			}
			log.Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unreachable, rate-limit blocks disabled")
		} else {
			services.Cache = memcache
			log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
		}
	}

	switch cfg.CacheBackend {
	case config.CacheBackendMemcache:
		services.Store = store.NewKVStore(services.Cache, snapshotKey, store.DefaultKVTTL)
	default:
		fileStore := store.NewFileStore(cfg.CacheFile)
		log.Info().Str("path", fileStore.Path()).Msg("Using file snapshot store")
		services.Store = fileStore
	}

	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		if err := redisPublisher.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable, publishing anyway")
		} else {
			log.Info().
				Str("addr", cfg.RedisAddr).
				Int("db", cfg.RedisDB).
				Str("stream", cfg.RedisStream).
				Msg("Connected to Redis")
		}
		services.Publisher = redisPublisher
	}

	if cfg.ArchiveDSN != "" {
		a, err := archive.NewPostgresArchive(ctx, cfg.ArchiveDSN)
		if err != nil {
			services.Cleanup()
			return nil, apperrors.NewArchive("", "failed to open archive", err)
		}
		services.Archive = a
		log.Info().Msg("Connected to PostgreSQL archive")
	}

	return services, nil
}

// newWorker wires the crawler, pipeline and sinks together
func newWorker(cfg *config.Config, services *Services) *worker.Worker {
	c := crawler.CreateCrawler(cfg, services.Cache)
	p := pipeline.New(c, services.Store, logger.ForPipeline())

	var opts []worker.Option
	if services.Publisher != nil {
		opts = append(opts, worker.WithPublisher(services.Publisher))
	}
	if services.Archive != nil {
		opts = append(opts, worker.WithArchive(services.Archive))
	}
	return worker.NewWorker(p, c.GetProvider(), cfg.CrawlInterval, opts...)
}
