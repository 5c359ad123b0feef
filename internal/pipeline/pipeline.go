// Package pipeline runs one scrape: the freshness check against the stored
// snapshot, extraction on a miss, ranking, and persisting the result.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"fyndchans/listingworker/internal/crawler"
	"fyndchans/listingworker/logger"
	"fyndchans/listingworker/services/store"
)

// Result is the outcome of one run
type Result struct {
	RunID     string
	Listings  []crawler.Listing
	FromCache bool
	WrittenAt time.Time
}

// Pipeline ties a crawler to the snapshot store
type Pipeline struct {
	crawler crawler.Crawler
	store   store.ListingStore
	log     *logger.Logger
}

// New creates a new pipeline
func New(c crawler.Crawler, s store.ListingStore, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.ForPipeline()
	}
	return &Pipeline{crawler: c, store: s, log: log}
}

// Run returns today's snapshot when one is stored, otherwise scrapes,
// ranks and stores a new one written at now. Extraction errors are
// returned unchanged; a failed save is logged and the result still returned.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (Result, error) {
	runID := uuid.NewString()
	log := p.log.WithField("run_id", runID)

	snapshot, err := p.store.Load(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Warn().Err(err).Msg("Stored snapshot unreadable, scraping again")
	}
	if store.IsFresh(snapshot, err, now) {
		log.Debug().
			Time("written_at", snapshot.WrittenAt).
			Int("listings", len(snapshot.Listings)).
			Msg("Returning cached snapshot")
		listings := snapshot.Listings
		if listings == nil {
			listings = []crawler.Listing{}
		}
		return Result{RunID: runID, Listings: listings, FromCache: true, WrittenAt: snapshot.WrittenAt}, nil
	}

	start := time.Now()
	listings, err := p.crawler.FetchListings(ctx)
	if err != nil {
		return Result{}, err
	}

	ranked := Rank(listings)
	if err := p.store.Save(ctx, store.Snapshot{WrittenAt: now, Listings: ranked}); err != nil {
		log.Error().Err(err).Msg("Failed to persist snapshot")
	}

	log.Info().
		Str("crawler", p.crawler.GetName()).
		Int("listings", len(ranked)).
		Dur("elapsed", time.Since(start)).
		Msg("Scraped listings")

	return Result{RunID: runID, Listings: ranked, WrittenAt: now}, nil
}
